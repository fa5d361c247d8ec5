package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tells income from expense.
type TransactionType int

const (
	TransactionIncome  TransactionType = 1
	TransactionExpense TransactionType = 2
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

func (t TransactionType) String() string {
	switch t {
	case TransactionIncome:
		return "income"
	case TransactionExpense:
		return "expense"
	default:
		return "unknown"
	}
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Transaction is a single movement of money for a person under a category.
// Type, PersonID and CategoryID are fixed at creation.
type Transaction struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  uuid.UUID
	PersonID    uuid.UUID
	CreatedAt   time.Time
}

// NewTransaction checks the structural rules first, then the business rules
// against the referenced category and person.
func NewTransaction(description string, amount decimal.Decimal, txType TransactionType, category *Category, person *Person) (*Transaction, error) {
	if err := checkTransaction(description, amount); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &ErrDomainRule{Reason: "category is required"}
	}
	if person == nil {
		return nil, &ErrDomainRule{Reason: "person is required"}
	}
	if !txType.Valid() {
		return nil, &ErrDomainRule{Reason: "invalid transaction type"}
	}
	if person.IsMinor() && txType == TransactionIncome {
		return nil, &ErrDomainRule{Reason: "minors can only register expenses"}
	}
	if !category.Purpose.Accepts(txType) {
		return nil, &ErrDomainRule{Reason: "category is not compatible with the transaction type"}
	}

	return &Transaction{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
		Type:        txType,
		CategoryID:  category.ID,
		PersonID:    person.ID,
		CreatedAt:   now(),
	}, nil
}

// Update replaces description and amount. On failure the transaction is left
// untouched.
func (t *Transaction) Update(description string, amount decimal.Decimal) error {
	if err := checkTransaction(description, amount); err != nil {
		return err
	}
	t.Description = description
	t.Amount = amount
	return nil
}

func checkTransaction(description string, amount decimal.Decimal) error {
	if err := checkDescription(description); err != nil {
		return err
	}
	return when(!amount.IsPositive(), "amount must be greater than zero")
}
