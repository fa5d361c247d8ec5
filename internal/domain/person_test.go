package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

func TestNewPerson_Valid(t *testing.T) {
	cases := []struct {
		name  string
		age   int
		minor bool
	}{
		{"Alice", 30, false},
		{"Bob", 17, true},
		{"Newborn", 0, true},
		{"Adult", 18, false},
		{strings.Repeat("a", 200), 50, false},
	}
	for _, tc := range cases {
		p, err := domain.NewPerson(tc.name, tc.age)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, tc.name, p.Name)
		assert.Equal(t, tc.age, p.Age)
		assert.Equal(t, tc.minor, p.IsMinor())
	}
}

func TestNewPerson_Invalid(t *testing.T) {
	cases := []struct {
		label string
		name  string
		age   int
	}{
		{"empty name", "", 20},
		{"whitespace name", "   ", 20},
		{"long name", strings.Repeat("a", 201), 20},
		{"negative age", "Carol", -1},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			p, err := domain.NewPerson(tc.name, tc.age)
			assert.Nil(t, p)
			var rule *domain.ErrDomainRule
			require.True(t, errors.As(err, &rule), "expected domain rule error, got %v", err)
			assert.NotEmpty(t, rule.Reason)
		})
	}
}

func TestNewPerson_LengthCountsCharacters(t *testing.T) {
	_, err := domain.NewPerson(strings.Repeat("é", 200), 40)
	assert.NoError(t, err)
}

func TestPersonUpdate_PreservesIdentity(t *testing.T) {
	p, err := domain.NewPerson("Bob", 40)
	require.NoError(t, err)
	id := p.ID

	require.NoError(t, p.Update("Bobby", 41))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Bobby", p.Name)
	assert.Equal(t, 41, p.Age)
}

func TestPersonUpdate_NoPartialApply(t *testing.T) {
	p, err := domain.NewPerson("Bob", 40)
	require.NoError(t, err)

	err = p.Update("Robert", -5)
	require.Error(t, err)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, 40, p.Age)
}
