package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/service"
)

func reportByPersonHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transaction/report-by-person")
		defer span.End()

		report, err := svc.ByPerson(ctx)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func reportByCategoryHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transaction/report-by-category")
		defer span.End()

		report, err := svc.ByCategory(ctx)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
