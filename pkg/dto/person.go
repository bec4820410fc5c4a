package dto

// PersonCreate is a DTO for adding a person.
type PersonCreate struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone,omitempty" validate:"max=32"`
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

// PersonUpdate is a DTO for a partial person update. Only non-nil fields are
// applied; an empty Phone or Notes clears the field.
type PersonUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Empty reports whether no field is set.
func (u PersonUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Notes == nil
}
