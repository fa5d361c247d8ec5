package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals holds the income and expense sums of a group of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func (t Totals) Add(o Totals) Totals {
	return Totals{Income: t.Income.Add(o.Income), Expense: t.Expense.Add(o.Expense)}
}

// PersonTotals is one row of the per-person report.
type PersonTotals struct {
	PersonID uuid.UUID
	Name     string
	Totals
}

// CategoryTotals is one row of the per-category report.
type CategoryTotals struct {
	CategoryID  uuid.UUID
	Description string
	Totals
}

// PersonReport is the per-person report with grand totals.
type PersonReport struct {
	People []PersonTotals
	Totals
}

// CategoryReport is the per-category report with grand totals.
type CategoryReport struct {
	Categories []CategoryTotals
	Totals
}

func NewPersonReport(rows []PersonTotals) PersonReport {
	r := PersonReport{People: rows, Totals: Totals{Income: decimal.Zero, Expense: decimal.Zero}}
	for _, row := range rows {
		r.Totals = r.Totals.Add(row.Totals)
	}
	return r
}

func NewCategoryReport(rows []CategoryTotals) CategoryReport {
	r := CategoryReport{Categories: rows, Totals: Totals{Income: decimal.Zero, Expense: decimal.Zero}}
	for _, row := range rows {
		r.Totals = r.Totals.Add(row.Totals)
	}
	return r
}
