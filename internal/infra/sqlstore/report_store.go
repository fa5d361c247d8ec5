package sqlstore

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// ============================================================
// Reports
// ============================================================

// Groups without transactions come back with zero sums thanks to the
// LEFT JOIN and COALESCE.
const (
	totalsByPersonQuery = `
		SELECT p.id, p.name,
		       CAST(COALESCE(SUM(CASE WHEN t.type = ? THEN t.amount_cents ELSE 0 END), 0) AS BIGINT),
		       CAST(COALESCE(SUM(CASE WHEN t.type = ? THEN t.amount_cents ELSE 0 END), 0) AS BIGINT)
		FROM people p
		LEFT JOIN transactions t ON t.person_id = p.id
		GROUP BY p.id, p.name, p.created_at
		ORDER BY p.created_at, p.id`

	totalsByCategoryQuery = `
		SELECT c.id, c.description,
		       CAST(COALESCE(SUM(CASE WHEN t.type = ? THEN t.amount_cents ELSE 0 END), 0) AS BIGINT),
		       CAST(COALESCE(SUM(CASE WHEN t.type = ? THEN t.amount_cents ELSE 0 END), 0) AS BIGINT)
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id
		GROUP BY c.id, c.description, c.created_at
		ORDER BY c.created_at, c.id`
)

func (s *Store) TotalsByPerson(ctx context.Context) ([]domain.PersonTotals, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.TotalsByPerson")
	defer span.End()

	out := make([]domain.PersonTotals, 0)
	err := s.run(ctx, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, s.rebind(totalsByPersonQuery),
			int(domain.TransactionIncome), int(domain.TransactionExpense))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				row             domain.PersonTotals
				income, expense int64
			)
			if err := rows.Scan(&row.PersonID, &row.Name, &income, &expense); err != nil {
				return fmt.Errorf("scan person totals: %w", err)
			}
			row.Totals = domain.Totals{Income: fromCents(income), Expense: fromCents(expense)}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("totals by person: %w", err)
	}
	span.SetAttributes(attribute.Int("report.rows", len(out)))
	return out, nil
}

func (s *Store) TotalsByCategory(ctx context.Context) ([]domain.CategoryTotals, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.TotalsByCategory")
	defer span.End()

	out := make([]domain.CategoryTotals, 0)
	err := s.run(ctx, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, s.rebind(totalsByCategoryQuery),
			int(domain.TransactionIncome), int(domain.TransactionExpense))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				row             domain.CategoryTotals
				income, expense int64
			)
			if err := rows.Scan(&row.CategoryID, &row.Description, &income, &expense); err != nil {
				return fmt.Errorf("scan category totals: %w", err)
			}
			row.Totals = domain.Totals{Income: fromCents(income), Expense: fromCents(expense)}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("totals by category: %w", err)
	}
	span.SetAttributes(attribute.Int("report.rows", len(out)))
	return out, nil
}
