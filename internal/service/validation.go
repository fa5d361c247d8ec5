package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// Request schema rules. They run before the domain rules and report every
// offending field at once.
const (
	minPersonNameLength = 3
	minPersonAge        = 1
	maxPersonAge        = 129
	amountPlaces        = 2
)

// maxAmount keeps amounts representable as int64 cents.
var maxAmount = decimal.New(1, 13)

type fieldErrors []string

func (f *fieldErrors) add(format string, args ...any) {
	*f = append(*f, fmt.Sprintf(format, args...))
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &domain.ErrValidation{Messages: f}
}

func (f *fieldErrors) text(field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(value)
	switch {
	case strings.TrimSpace(value) == "":
		f.add("%s is required", field)
	case n < minLen:
		f.add("%s must be at least %d characters", field, minLen)
	case n > maxLen:
		f.add("%s must be at most %d characters", field, maxLen)
	}
}

func (f *fieldErrors) id(field, value string) uuid.UUID {
	if strings.TrimSpace(value) == "" {
		f.add("%s is required", field)
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		f.add("%s must be a valid UUID", field)
		return uuid.Nil
	}
	return id
}

func validatePerson(req domain.PersonRequest) error {
	var errs fieldErrors
	errs.text("name", req.Name, minPersonNameLength, domain.MaxPersonNameLength)
	if req.Age < minPersonAge || req.Age > maxPersonAge {
		errs.add("age must be between %d and %d", minPersonAge, maxPersonAge)
	}
	return errs.err()
}

func validateCategory(req domain.CategoryRequest) error {
	var errs fieldErrors
	errs.text("description", req.Description, 1, domain.MaxDescriptionLength)
	if !req.Purpose.Valid() {
		errs.add("purpose must be 1 (income), 2 (expense) or 3 (both)")
	}
	return errs.err()
}

// validateTransaction also returns the parsed person and category ids.
func validateTransaction(req domain.TransactionRequest) (personID, categoryID uuid.UUID, err error) {
	var errs fieldErrors
	errs.text("description", req.Description, 1, domain.MaxDescriptionLength)
	switch {
	case !req.Amount.IsPositive():
		errs.add("amount must be greater than zero")
	case !req.Amount.Equal(req.Amount.Truncate(amountPlaces)):
		errs.add("amount must have at most %d decimal places", amountPlaces)
	case req.Amount.GreaterThanOrEqual(maxAmount):
		errs.add("amount must be less than %s", maxAmount)
	}
	if !req.Type.Valid() {
		errs.add("type must be 1 (income) or 2 (expense)")
	}
	personID = errs.id("personId", req.PersonID)
	categoryID = errs.id("categoryId", req.CategoryID)
	return personID, categoryID, errs.err()
}
