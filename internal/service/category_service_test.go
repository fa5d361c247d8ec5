package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

func TestCategoryService_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.categories.Create(ctx, domain.CategoryRequest{Description: "Salary", Purpose: domain.PurposeIncome})
	require.NoError(t, err)

	updated, err := f.categories.Update(ctx, created.ID, domain.CategoryRequest{Description: "Wages", Purpose: domain.PurposeBoth})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryResponse{ID: created.ID, Description: "Wages", Purpose: domain.PurposeBoth}, *updated)

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryResponse{*updated}, list)

	require.NoError(t, f.categories.Delete(ctx, created.ID))
	_, err = f.categories.Get(ctx, created.ID)
	var nf *domain.ErrNotFound
	assert.True(t, errors.As(err, &nf))

	assert.Equal(t, []string{"category.created", "category.updated", "category.deleted"}, f.publisher.names())
}

func TestCategoryService_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.categories.Create(context.Background(), domain.CategoryRequest{Description: "", Purpose: 7})
	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"description is required",
		"purpose must be 1 (income), 2 (expense) or 3 (both)",
	}, verr.Messages)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	personID, categoryID := seedPersonAndCategory(t, f, 30, domain.PurposeExpense)
	_, err := f.transactions.Create(ctx, txRequest("Rent", "900", domain.TransactionExpense, personID, categoryID))
	require.NoError(t, err)

	err = f.categories.Delete(ctx, categoryID)
	var rule *domain.ErrBusinessRule
	require.True(t, errors.As(err, &rule), "expected business rule error, got %v", err)

	_, err = f.categories.Get(ctx, categoryID)
	assert.NoError(t, err)
}
