package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"surveyreport/internal/report"
)

// ReportRow is the relational shape of a report.Record, used by the
// PostgreSQL backend. Structured fields live in JSON columns so the
// stored document matches what the MongoDB backend writes.
type ReportRow struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time `gorm:"index;not null"`

	UserID string `gorm:"index;size:255;not null"`

	// FormID is NULL when the submission carried no formId.
	FormID datatypes.JSON `gorm:"type:json"`

	Events       datatypes.JSONSlice[report.Event] `gorm:"type:json;not null"`
	FinalAnswers datatypes.JSONMap                 `gorm:"type:json;not null"`

	TotalTimeSeconds float64 `gorm:"not null"`
	Feedback         string  `gorm:"type:text;not null"`
}

func newReportRow(rec *report.Record) (*ReportRow, error) {
	row := &ReportRow{
		CreatedAt:        rec.CreatedAt,
		UserID:           rec.UserID,
		Events:           datatypes.JSONSlice[report.Event](rec.Events),
		FinalAnswers:     datatypes.JSONMap(rec.FinalAnswers),
		TotalTimeSeconds: rec.TotalTimeSeconds,
		Feedback:         rec.Feedback,
	}
	if rec.FormID != nil {
		b, err := json.Marshal(rec.FormID)
		if err != nil {
			return nil, err
		}
		row.FormID = datatypes.JSON(b)
	}
	return row, nil
}
