package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable carries a patch value for a nullable column. The zero value
// means "not supplied"; Set with !Valid means "explicitly cleared".
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Value[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Valid: true, Value: v} }

func Null[T any]() Nullable[T] { return Nullable[T]{Set: true} }

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when cleared.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

type AreaPatch struct {
	Name *string `json:"name"`
}

func (p AreaPatch) Validate() error {
	if p.Name != nil {
		return validateName("name", *p.Name)
	}
	return nil
}

func (p AreaPatch) Apply(a *Area) {
	if p.Name != nil {
		a.Name = *p.Name
	}
}

type RoomPatch struct {
	Name *string `json:"name"`
}

func (p RoomPatch) Validate() error {
	if p.Name != nil {
		return validateName("name", *p.Name)
	}
	return nil
}

func (p RoomPatch) Apply(r *Room) {
	if p.Name != nil {
		r.Name = *p.Name
	}
}

type FurniturePatch struct {
	Name        *string          `json:"name"`
	Rows        *int             `json:"rows"`
	Location    Nullable[string] `json:"location"`
	Description Nullable[string] `json:"description"`
}

func (p FurniturePatch) Validate() error {
	if p.Name != nil {
		if err := validateName("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Rows != nil && *p.Rows < 1 {
		return &ValidationError{Field: "rows", Reason: "must be at least 1"}
	}
	return nil
}

func (p FurniturePatch) Apply(f *Furniture) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Rows != nil {
		f.Rows = *p.Rows
	}
	if p.Location.Set {
		f.Location = p.Location.Ptr()
	}
	if p.Description.Set {
		f.Description = p.Description.Ptr()
	}
}

type ItemPatch struct {
	Name        *string        `json:"name"`
	Type        *ItemType      `json:"type"`
	Quantity    *int           `json:"quantity"`
	RowNumber   *int           `json:"row_number"`
	ExpiresOn   Nullable[Date] `json:"expires_on"`
	FurnitureID *int64         `json:"furniture_id"`
}

func (p ItemPatch) Validate() error {
	if p.Name != nil {
		if err := validateName("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown value"}
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if p.RowNumber != nil && *p.RowNumber < 1 {
		return &ValidationError{Field: "row_number", Reason: "must be at least 1"}
	}
	return nil
}

func (p ItemPatch) Apply(i *Item) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.RowNumber != nil {
		i.RowNumber = *p.RowNumber
	}
	if p.ExpiresOn.Set {
		i.ExpiresOn = p.ExpiresOn.Ptr()
	}
	if p.FurnitureID != nil {
		i.FurnitureID = *p.FurnitureID
	}
}

type ProfilePatch struct {
	Nickname *string `json:"nickname"`
}

func (p ProfilePatch) Validate() error {
	if p.Nickname != nil {
		return validateNickname(*p.Nickname)
	}
	return nil
}

func (p ProfilePatch) Apply(pr *Profile) {
	if p.Nickname != nil {
		pr.Nickname = *p.Nickname
	}
}
