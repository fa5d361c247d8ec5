package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

func TestMoney_MarshalsTwoPlaces(t *testing.T) {
	for in, want := range map[string]string{
		"50":     "50.00",
		"762.75": "762.75",
		"12.5":   "12.50",
		"-30":    "-30.00",
		"0":      "0.00",
	} {
		b, err := json.Marshal(domain.NewMoney(decimal.RequireFromString(in)))
		require.NoError(t, err)
		assert.Equal(t, want, string(b), in)
	}

	b, err := json.Marshal(domain.Money{})
	require.NoError(t, err)
	assert.Equal(t, "0.00", string(b))
}

func TestMoney_UnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var m domain.Money
	require.NoError(t, json.Unmarshal([]byte("42.10"), &m))
	assert.True(t, m.Equal(decimal.RequireFromString("42.1")))

	require.NoError(t, json.Unmarshal([]byte(`"7.5"`), &m))
	assert.True(t, m.Equal(decimal.RequireFromString("7.5")))
}

func TestTransactionResponse_AmountIsFixedNumber(t *testing.T) {
	tx, err := domain.NewTransaction("Groceries", decimal.NewFromInt(50), domain.TransactionExpense, mustCategory(t, domain.PurposeBoth), mustPerson(t, 30))
	require.NoError(t, err)

	b, err := json.Marshal(domain.NewTransactionResponse(tx))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":50.00`)

	var back domain.TransactionResponse
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Amount.Equal(decimal.NewFromInt(50)))
}

func TestReportResponse_TotalsAreFixedNumbers(t *testing.T) {
	b, err := json.Marshal(domain.NewCategoryReportResponse(domain.NewCategoryReport(nil)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories":[],"totalIncome":0,"totalExpense":0,"netBalance":0}`, string(b))
	assert.Contains(t, string(b), `"netBalance":0.00`)
}
