package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// AnonymousUser is stored when a submission carries no usable userId.
const AnonymousUser = "anonymous"

// ErrStorageUnavailable means no storage connection was established at
// startup; submissions are rejected without touching the store.
var ErrStorageUnavailable = errors.New("storage unavailable")

// PersistenceError wraps a failure returned by the store's insert.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return "persist report: " + e.Cause.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// Record is the document persisted for one completed survey session.
// FormID is nil, and stored as null, when the submission had none.
type Record struct {
	UserID           string         `bson:"userId" json:"userId"`
	FormID           any            `bson:"formId" json:"formId"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
	Events           []Event        `bson:"events" json:"events"`
	FinalAnswers     map[string]any `bson:"final_answers" json:"final_answers"`
	TotalTimeSeconds float64        `bson:"total_time_seconds" json:"total_time_seconds"`
	Feedback         string         `bson:"feedback" json:"feedback"`
}

// Store persists report records. InsertReport performs exactly one write
// and returns the identifier the backend generated for it.
type Store interface {
	InsertReport(ctx context.Context, rec *Record) (string, error)
}

// Assembler builds report records from submissions and hands them to the store.
type Assembler struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewAssembler returns an Assembler writing to store. A nil store puts the
// assembler in the storage-unavailable state for its whole lifetime.
func NewAssembler(store Store, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Available reports whether a store is attached.
func (a *Assembler) Available() bool {
	return a.store != nil
}

// Assemble builds the record for sub, stamping CreatedAt with the current time.
func (a *Assembler) Assemble(sub Submission) *Record {
	userID := sub.UserID
	if userID == "" {
		userID = AnonymousUser
	}

	answers := sub.Answers
	if answers == nil {
		answers = map[string]any{}
	}

	events, total := Normalize(sub.OptionLogs)

	return &Record{
		UserID:           userID,
		FormID:           sub.FormID,
		CreatedAt:        a.now().UTC(),
		Events:           events,
		FinalAnswers:     answers,
		TotalTimeSeconds: total,
		Feedback:         sub.Feedback,
	}
}

// Submit assembles and stores one report, returning the new record id.
// Errors are either ErrStorageUnavailable or a *PersistenceError.
func (a *Assembler) Submit(ctx context.Context, sub Submission) (string, *Record, error) {
	if a.store == nil {
		return "", nil, ErrStorageUnavailable
	}

	rec := a.Assemble(sub)

	id, err := a.store.InsertReport(ctx, rec)
	if err != nil {
		a.logger.Error("report insert failed",
			zap.String("user_id", rec.UserID),
			zap.Int("events", len(rec.Events)),
			zap.Error(err))
		return "", rec, &PersistenceError{Cause: err}
	}

	a.logger.Debug("report stored",
		zap.String("report_id", id),
		zap.String("user_id", rec.UserID),
		zap.Int("events", len(rec.Events)),
		zap.Float64("total_time_seconds", rec.TotalTimeSeconds))
	return id, rec, nil
}
