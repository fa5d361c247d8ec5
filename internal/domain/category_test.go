package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

func TestNewCategory(t *testing.T) {
	for _, purpose := range []domain.CategoryPurpose{domain.PurposeIncome, domain.PurposeExpense, domain.PurposeBoth} {
		for _, desc := range []string{"x", "Groceries", strings.Repeat("d", 400)} {
			c, err := domain.NewCategory(desc, purpose)
			require.NoError(t, err)
			assert.Equal(t, desc, c.Description)
			assert.Equal(t, purpose, c.Purpose)
		}
	}
}

func TestNewCategory_Invalid(t *testing.T) {
	_, err := domain.NewCategory("", domain.PurposeBoth)
	assert.Error(t, err)
	_, err = domain.NewCategory(" \t", domain.PurposeBoth)
	assert.Error(t, err)
	_, err = domain.NewCategory(strings.Repeat("d", 401), domain.PurposeBoth)
	assert.Error(t, err)
	_, err = domain.NewCategory("Rent", domain.CategoryPurpose(0))
	assert.Error(t, err)
	_, err = domain.NewCategory("Rent", domain.CategoryPurpose(4))
	assert.Error(t, err)
}

func TestCategoryUpdate(t *testing.T) {
	c, err := domain.NewCategory("Salary", domain.PurposeIncome)
	require.NoError(t, err)
	id := c.ID

	require.NoError(t, c.Update("Wages", domain.PurposeBoth))
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Wages", c.Description)
	assert.Equal(t, domain.PurposeBoth, c.Purpose)

	require.Error(t, c.Update("", domain.PurposeExpense))
	assert.Equal(t, "Wages", c.Description)
	assert.Equal(t, domain.PurposeBoth, c.Purpose)
}

func TestPurposeAccepts(t *testing.T) {
	cases := []struct {
		purpose domain.CategoryPurpose
		txType  domain.TransactionType
		want    bool
	}{
		{domain.PurposeBoth, domain.TransactionIncome, true},
		{domain.PurposeBoth, domain.TransactionExpense, true},
		{domain.PurposeIncome, domain.TransactionIncome, true},
		{domain.PurposeIncome, domain.TransactionExpense, false},
		{domain.PurposeExpense, domain.TransactionExpense, true},
		{domain.PurposeExpense, domain.TransactionIncome, false},
		{domain.PurposeExpense, domain.TransactionType(9), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.purpose.Accepts(tc.txType), "%s accepts %s", tc.purpose, tc.txType)
	}
}
