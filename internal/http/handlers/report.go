package handlers

import (
	"context"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"surveyreport/internal/config"
	httpctx "surveyreport/internal/http/ctx"
	"surveyreport/internal/report"
)

const (
	msgSaved              = "Report saved."
	msgStorageUnavailable = "Database connection is not available."
	msgSaveFailedPrefix   = "Failed to save report to database. Details: "
)

type submitResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ReportID string `json:"report_id,omitempty"`
}

// FinalReport accepts one survey session, stores it as a report and
// replies with the generated report id.
func FinalReport(asm *report.Assembler, cfg *config.Config, logger *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rid, _ := httpctx.RequestIDFromCtx(ctx)
		log := logger.With(zap.String("request_id", rid))

		if !asm.Available() {
			submissionsTotal.WithLabelValues("unavailable").Inc()
			jsonResponse(ctx, fasthttp.StatusInternalServerError, submitResponse{
				Status:  "error",
				Message: msgStorageUnavailable,
			})
			return
		}

		sub, err := report.DecodeSubmission(ctx.PostBody())
		if err != nil {
			submissionsTotal.WithLabelValues("invalid").Inc()
			jsonResponse(ctx, fasthttp.StatusBadRequest, submitResponse{
				Status:  "error",
				Message: err.Error(),
			})
			return
		}

		writeCtx, cancel := context.WithTimeout(ctx, cfg.WriteTimeout)
		defer cancel()

		id, rec, err := asm.Submit(writeCtx, sub)
		if err != nil {
			msg := msgSaveFailedPrefix + err.Error()
			outcome := "failed"
			var perr *report.PersistenceError
			switch {
			case errors.Is(err, report.ErrStorageUnavailable):
				msg = msgStorageUnavailable
				outcome = "unavailable"
			case errors.As(err, &perr):
				msg = msgSaveFailedPrefix + perr.Cause.Error()
			}
			submissionsTotal.WithLabelValues(outcome).Inc()
			log.Warn("report rejected", zap.String("outcome", outcome), zap.Error(err))
			jsonResponse(ctx, fasthttp.StatusInternalServerError, submitResponse{
				Status:  "error",
				Message: msg,
			})
			return
		}

		submissionsTotal.WithLabelValues("stored").Inc()
		submissionEvents.Observe(float64(len(rec.Events)))
		submissionTotalTime.Observe(rec.TotalTimeSeconds)
		log.Info("report stored",
			zap.String("report_id", id),
			zap.String("user_id", rec.UserID),
			zap.Int("events", len(rec.Events)))

		jsonResponse(ctx, fasthttp.StatusOK, submitResponse{
			Status:   "success",
			Message:  msgSaved,
			ReportID: id,
		})
	}
}
