package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/handler"
)

// TestIntegration_FullFlow runs the wired application behind a real listener
// and walks through a household's month.
func TestIntegration_FullFlow(t *testing.T) {
	cfg := testConfig(t)
	a, err := newApp(context.Background(), cfg, zap.NewNop(), true)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	srv := httptest.NewServer(handler.NewRouter(a.services, a.store, a.metrics, zap.NewNop(), handler.Options{
		RequestTimeout: cfg.HTTPTimeout,
	}))
	defer srv.Close()

	post := func(path string, body any) domain.CreatedResponse {
		t.Helper()
		b, err := json.Marshal(body)
		require.NoError(t, err)
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(b))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created domain.CreatedResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		return created
	}

	parent := post("/person", domain.PersonRequest{Name: "Maria", Age: 41})
	child := post("/person", domain.PersonRequest{Name: "Lucas", Age: 9})
	salary := post("/category", domain.CategoryRequest{Description: "Salary", Purpose: domain.PurposeIncome})
	food := post("/category", domain.CategoryRequest{Description: "Food", Purpose: domain.PurposeExpense})

	tx := func(desc string, amount float64, txType domain.TransactionType, person, category domain.CreatedResponse) map[string]any {
		return map[string]any{
			"description": desc,
			"amount":      amount,
			"type":        txType,
			"personId":    person.ID.String(),
			"categoryId":  category.ID.String(),
		}
	}
	post("/transaction", tx("Paycheck", 5000, domain.TransactionIncome, parent, salary))
	post("/transaction", tx("Supermarket", 750.25, domain.TransactionExpense, parent, food))
	post("/transaction", tx("Ice cream", 12.5, domain.TransactionExpense, child, food))

	resp, err := http.Get(srv.URL + "/transaction/report-by-person")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	// Amounts are plain JSON numbers.
	assert.Equal(t, 5000.0, raw["totalIncome"])
	assert.Equal(t, 762.75, raw["totalExpense"])
	assert.Equal(t, 4237.25, raw["netBalance"])

	resp2, err := http.Get(srv.URL + "/transaction")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var list []domain.TransactionResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&list))
	require.Len(t, list, 3)
	assert.Equal(t, "Paycheck", list[0].Description)

	summary := a.metrics.Summary()
	assert.Equal(t, int64(3), summary.WritesByEntity["transaction"])
	assert.Equal(t, int64(2), summary.WritesByEntity["person"])
}
