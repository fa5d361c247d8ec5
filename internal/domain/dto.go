// Package domain defines the core entities of the expense tracker, the
// invariants they enforce, and the request/response shapes exchanged over
// the API. It has no dependency on storage or transport.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// People
// ============================================================

// PersonRequest is the body of POST and PUT /person.
type PersonRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type PersonResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Age  int       `json:"age"`
}

func NewPersonResponse(p *Person) PersonResponse {
	return PersonResponse{ID: p.ID, Name: p.Name, Age: p.Age}
}

// ============================================================
// Categories
// ============================================================

// CategoryRequest is the body of POST and PUT /category.
type CategoryRequest struct {
	Description string          `json:"description"`
	Purpose     CategoryPurpose `json:"purpose"`
}

type CategoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Purpose     CategoryPurpose `json:"purpose"`
}

func NewCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Description: c.Description, Purpose: c.Purpose}
}

// ============================================================
// Transactions
// ============================================================

// TransactionRequest is the body of POST and PUT /transaction. On update
// only Description and Amount are applied.
type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	PersonID    string          `json:"personId"`
	CategoryID  string          `json:"categoryId"`
}

type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Type        TransactionType `json:"type"`
	PersonID    uuid.UUID       `json:"personId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewTransactionResponse(t *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      NewMoney(t.Amount),
		Type:        t.Type,
		PersonID:    t.PersonID,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
	}
}

// ============================================================
// Reports
// ============================================================

type PersonTotalsResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TotalIncome  Money     `json:"totalIncome"`
	TotalExpense Money     `json:"totalExpense"`
	Balance      Money     `json:"balance"`
}

type PersonReportResponse struct {
	People       []PersonTotalsResponse `json:"people"`
	TotalIncome  Money                  `json:"totalIncome"`
	TotalExpense Money                  `json:"totalExpense"`
	NetBalance   Money                  `json:"netBalance"`
}

func NewPersonReportResponse(r PersonReport) PersonReportResponse {
	out := PersonReportResponse{
		People:       make([]PersonTotalsResponse, 0, len(r.People)),
		TotalIncome:  NewMoney(r.Income),
		TotalExpense: NewMoney(r.Expense),
		NetBalance:   NewMoney(r.Balance()),
	}
	for _, row := range r.People {
		out.People = append(out.People, PersonTotalsResponse{
			ID:           row.PersonID,
			Name:         row.Name,
			TotalIncome:  NewMoney(row.Income),
			TotalExpense: NewMoney(row.Expense),
			Balance:      NewMoney(row.Balance()),
		})
	}
	return out
}

type CategoryTotalsResponse struct {
	ID           uuid.UUID `json:"id"`
	Description  string    `json:"description"`
	TotalIncome  Money     `json:"totalIncome"`
	TotalExpense Money     `json:"totalExpense"`
	Balance      Money     `json:"balance"`
}

type CategoryReportResponse struct {
	Categories   []CategoryTotalsResponse `json:"categories"`
	TotalIncome  Money                    `json:"totalIncome"`
	TotalExpense Money                    `json:"totalExpense"`
	NetBalance   Money                    `json:"netBalance"`
}

func NewCategoryReportResponse(r CategoryReport) CategoryReportResponse {
	out := CategoryReportResponse{
		Categories:   make([]CategoryTotalsResponse, 0, len(r.Categories)),
		TotalIncome:  NewMoney(r.Income),
		TotalExpense: NewMoney(r.Expense),
		NetBalance:   NewMoney(r.Balance()),
	}
	for _, row := range r.Categories {
		out.Categories = append(out.Categories, CategoryTotalsResponse{
			ID:           row.CategoryID,
			Description:  row.Description,
			TotalIncome:  NewMoney(row.Income),
			TotalExpense: NewMoney(row.Expense),
			Balance:      NewMoney(row.Balance()),
		})
	}
	return out
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// CreatedResponse is returned by every POST.
type CreatedResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// ============================================================
// Events
// ============================================================

// Event announces a change to an entity.
type Event struct {
	Name       string    `json:"event"`
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(name string, id uuid.UUID) Event {
	return Event{Name: name, ID: id, OccurredAt: time.Now().UTC()}
}
