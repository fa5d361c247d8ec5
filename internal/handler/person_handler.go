package handler

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/service"
)

// ============================================================
// People: /person
// ============================================================

func createPersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /person")
		defer span.End()

		var req domain.PersonRequest
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

func updatePersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /person/{id}")
		defer span.End()

		id, ok := pathID(w, r, "person")
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("person.id", id.String()))

		var req domain.PersonRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		person, err := svc.Update(ctx, id, req)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, person)
	}
}

func listPeopleHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /person")
		defer span.End()

		people, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, people)
	}
}

func getPersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /person/{id}")
		defer span.End()

		id, ok := pathID(w, r, "person")
		if !ok {
			return
		}
		person, err := svc.Get(ctx, id)
		if err != nil {
			handleServiceError(w, r, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, person)
	}
}

func deletePersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /person/{id}")
		defer span.End()

		id, ok := pathID(w, r, "person")
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
