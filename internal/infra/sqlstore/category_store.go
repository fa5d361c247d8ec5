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
// Categories
// ============================================================

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	ctx, span := tracer.Start(ctx, "SQLStore.CreateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", c.ID.String()))

	err := s.run(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			s.rebind(`INSERT INTO categories (id, description, purpose, created_at) VALUES (?, ?, ?, ?)`),
			c.ID, c.Description, int(c.Purpose), unixMicro(time.Now()),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	ctx, span := tracer.Start(ctx, "SQLStore.UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", c.ID.String()))

	err := s.exec(ctx, "category", c.ID,
		`UPDATE categories SET description = ?, purpose = ? WHERE id = ?`,
		c.Description, int(c.Purpose), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory refuses with *domain.ErrBusinessRule while transactions
// still reference the category.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "SQLStore.DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))

	err := s.exec(ctx, "category", id, `DELETE FROM categories WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return &domain.ErrBusinessRule{Reason: "category is in use by transactions"}
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.GetCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))

	var c domain.Category
	err := s.run(ctx, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx,
			s.rebind(`SELECT id, description, purpose FROM categories WHERE id = ?`), id,
		).Scan(&c.ID, &c.Description, &c.Purpose)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "category", ID: id.String()}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.ListCategories")
	defer span.End()

	categories := make([]domain.Category, 0)
	err := s.run(ctx, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT id, description, purpose FROM categories ORDER BY created_at, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c domain.Category
			if err := rows.Scan(&c.ID, &c.Description, &c.Purpose); err != nil {
				return fmt.Errorf("scan category: %w", err)
			}
			categories = append(categories, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	span.SetAttributes(attribute.Int("categories.count", len(categories)))
	return categories, nil
}
