package handler

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/service"
)

// ============================================================
// Transactions: /transaction
// ============================================================

func createTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /transaction")
		defer span.End()

		var req domain.TransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		created, err := svc.Create(ctx, req)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /transaction/{id}")
		defer span.End()

		id, ok := pathID(w, r, "transaction")
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("transaction.id", id.String()))

		var req domain.TransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		tx, err := svc.Update(ctx, id, req)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func listTransactionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transaction")
		defer span.End()

		transactions, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, transactions)
	}
}

func getTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transaction/{id}")
		defer span.End()

		id, ok := pathID(w, r, "transaction")
		if !ok {
			return
		}
		tx, err := svc.Get(ctx, id)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func deleteTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /transaction/{id}")
		defer span.End()

		id, ok := pathID(w, r, "transaction")
		if !ok {
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
