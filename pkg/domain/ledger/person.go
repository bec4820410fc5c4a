package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person is a counterparty the user lends to or borrows from.
type Person struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// NewPerson creates a Person with a fresh id. The name must not be blank.
func NewPerson(name, phone, notes string) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Person{
		ID:        NewID(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: Now(),
	}, nil
}

// NewPersonFromData creates a Person from raw data (used for DB hydration and
// replicated documents). It bypasses validation.
func NewPersonFromData(
	id uuid.UUID,
	name, phone, notes string,
	created time.Time,
) *Person {
	return &Person{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Notes:     notes,
		CreatedAt: created,
	}
}

// Rename changes the person's name.
func (p *Person) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	p.Name = name
	return nil
}

// SameAs reports whether both records hold the same field values.
func (p *Person) SameAs(o *Person) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.ID == o.ID &&
		p.Name == o.Name &&
		p.Phone == o.Phone &&
		p.Notes == o.Notes &&
		p.CreatedAt.Equal(o.CreatedAt)
}
