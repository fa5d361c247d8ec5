package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// ============================================================
// Transactions
// ============================================================

const transactionColumns = `id, description, amount_cents, type, person_id, category_id, created_at`

// Amounts are stored as integer cents so that SQL sums stay exact.
func toCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t         domain.Transaction
		cents     int64
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Description, &cents, &t.Type, &t.PersonID, &t.CategoryID, &createdAt); err != nil {
		return t, err
	}
	t.Amount = fromCents(cents)
	t.CreatedAt = fromUnixMicro(createdAt)
	return t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "SQLStore.CreateTransaction")
	defer span.End()
	span.SetAttributes(
		attribute.String("transaction.id", t.ID.String()),
		attribute.String("person.id", t.PersonID.String()),
		attribute.String("category.id", t.CategoryID.String()),
	)

	err := s.run(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			s.rebind(`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
			t.ID, t.Description, toCents(t.Amount), int(t.Type), t.PersonID, t.CategoryID, unixMicro(t.CreatedAt),
		)
		return err
	})
	if isForeignKeyViolation(err) {
		// person or category vanished between lookup and insert
		return &domain.ErrNotFound{Resource: "person or category", ID: t.PersonID.String() + "/" + t.CategoryID.String()}
	}
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction writes description and amount only.
func (s *Store) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "SQLStore.UpdateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", t.ID.String()))

	err := s.exec(ctx, "transaction", t.ID,
		`UPDATE transactions SET description = ?, amount_cents = ? WHERE id = ?`,
		t.Description, toCents(t.Amount), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "SQLStore.DeleteTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id.String()))

	if err := s.exec(ctx, "transaction", id, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.GetTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id.String()))

	var t domain.Transaction
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		t, err = scanTransaction(s.db.QueryRowContext(ctx,
			s.rebind(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`), id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "transaction", ID: id.String()}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.ListTransactions")
	defer span.End()

	txs := make([]domain.Transaction, 0)
	err := s.run(ctx, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY created_at, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				return fmt.Errorf("scan transaction: %w", err)
			}
			txs = append(txs, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	span.SetAttributes(attribute.Int("transactions.count", len(txs)))
	return txs, nil
}
