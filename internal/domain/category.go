package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxDescriptionLength = 400

// CategoryPurpose restricts which transaction types a category accepts.
type CategoryPurpose int

const (
	PurposeIncome  CategoryPurpose = 1
	PurposeExpense CategoryPurpose = 2
	PurposeBoth    CategoryPurpose = 3
)

func (p CategoryPurpose) Valid() bool {
	return p == PurposeIncome || p == PurposeExpense || p == PurposeBoth
}

func (p CategoryPurpose) String() string {
	switch p {
	case PurposeIncome:
		return "income"
	case PurposeExpense:
		return "expense"
	case PurposeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// purposeForType maps each transaction type to the single-purpose category
// that accepts it. PurposeBoth accepts every type.
var purposeForType = map[TransactionType]CategoryPurpose{
	TransactionIncome:  PurposeIncome,
	TransactionExpense: PurposeExpense,
}

// Accepts reports whether a transaction of type t may use a category with
// this purpose.
func (p CategoryPurpose) Accepts(t TransactionType) bool {
	if p == PurposeBoth {
		return true
	}
	want, ok := purposeForType[t]
	return ok && p == want
}

// Category classifies transactions.
type Category struct {
	ID          uuid.UUID
	Description string
	Purpose     CategoryPurpose
}

func NewCategory(description string, purpose CategoryPurpose) (*Category, error) {
	if err := checkCategory(description, purpose); err != nil {
		return nil, err
	}
	return &Category{ID: uuid.New(), Description: description, Purpose: purpose}, nil
}

// Update replaces description and purpose. On failure the category is left
// untouched.
func (c *Category) Update(description string, purpose CategoryPurpose) error {
	if err := checkCategory(description, purpose); err != nil {
		return err
	}
	c.Description = description
	c.Purpose = purpose
	return nil
}

func checkCategory(description string, purpose CategoryPurpose) error {
	if err := checkDescription(description); err != nil {
		return err
	}
	return when(!purpose.Valid(), "invalid category purpose")
}

func checkDescription(description string) error {
	if err := when(strings.TrimSpace(description) == "", "description is required"); err != nil {
		return err
	}
	return when(utf8.RuneCountInString(description) > MaxDescriptionLength, "description must be at most 400 characters")
}
