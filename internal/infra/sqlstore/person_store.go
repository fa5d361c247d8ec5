package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// ============================================================
// People
// ============================================================

func (s *Store) CreatePerson(ctx context.Context, p *domain.Person) error {
	ctx, span := tracer.Start(ctx, "SQLStore.CreatePerson")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", p.ID.String()))

	err := s.run(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			s.rebind(`INSERT INTO people (id, name, age, created_at) VALUES (?, ?, ?, ?)`),
			p.ID, p.Name, p.Age, unixMicro(time.Now()),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *Store) UpdatePerson(ctx context.Context, p *domain.Person) error {
	ctx, span := tracer.Start(ctx, "SQLStore.UpdatePerson")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", p.ID.String()))

	err := s.exec(ctx, "person", p.ID,
		`UPDATE people SET name = ?, age = ? WHERE id = ?`,
		p.Name, p.Age, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// DeletePerson removes the person and, by cascade, their transactions.
func (s *Store) DeletePerson(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "SQLStore.DeletePerson")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", id.String()))

	if err := s.exec(ctx, "person", id, `DELETE FROM people WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.GetPerson")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", id.String()))

	var p domain.Person
	err := s.run(ctx, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx,
			s.rebind(`SELECT id, name, age FROM people WHERE id = ?`), id,
		).Scan(&p.ID, &p.Name, &p.Age)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "person", ID: id.String()}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPeople(ctx context.Context) ([]domain.Person, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.ListPeople")
	defer span.End()

	people := make([]domain.Person, 0)
	err := s.run(ctx, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT id, name, age FROM people ORDER BY created_at, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p domain.Person
			if err := rows.Scan(&p.ID, &p.Name, &p.Age); err != nil {
				return fmt.Errorf("scan person: %w", err)
			}
			people = append(people, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	span.SetAttributes(attribute.Int("people.count", len(people)))
	return people, nil
}
