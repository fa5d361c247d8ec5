package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxPersonNameLength = 200
	AdultAge            = 18
)

// Person is someone whose income and expenses are tracked.
type Person struct {
	ID   uuid.UUID
	Name string
	Age  int
}

// NewPerson builds a Person with a fresh identity.
func NewPerson(name string, age int) (*Person, error) {
	if err := checkPerson(name, age); err != nil {
		return nil, err
	}
	return &Person{ID: uuid.New(), Name: name, Age: age}, nil
}

// Update replaces name and age. On failure the person is left untouched.
func (p *Person) Update(name string, age int) error {
	if err := checkPerson(name, age); err != nil {
		return err
	}
	p.Name = name
	p.Age = age
	return nil
}

// IsMinor reports whether the person is under the adult age.
func (p *Person) IsMinor() bool {
	return p.Age < AdultAge
}

func checkPerson(name string, age int) error {
	for _, err := range []error{
		when(strings.TrimSpace(name) == "", "name is required"),
		when(utf8.RuneCountInString(name) > MaxPersonNameLength, "name must be at most 200 characters"),
		when(age < 0, "age must not be negative"),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
