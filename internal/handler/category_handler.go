package handler

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/service"
)

// ============================================================
// Categories: /category
// ============================================================

func createCategoryHandler(svc *service.CategoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /category")
		defer span.End()

		var req domain.CategoryRequest
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

func updateCategoryHandler(svc *service.CategoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /category/{id}")
		defer span.End()

		id, ok := pathID(w, r, "category")
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("category.id", id.String()))

		var req domain.CategoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		category, err := svc.Update(ctx, id, req)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func listCategoriesHandler(svc *service.CategoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /category")
		defer span.End()

		categories, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func getCategoryHandler(svc *service.CategoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /category/{id}")
		defer span.End()

		id, ok := pathID(w, r, "category")
		if !ok {
			return
		}
		category, err := svc.Get(ctx, id)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func deleteCategoryHandler(svc *service.CategoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /category/{id}")
		defer span.End()

		id, ok := pathID(w, r, "category")
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
