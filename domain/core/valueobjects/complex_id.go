package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ComplexID is a value object representing a unique inquiry complex identifier
type ComplexID struct {
	value string
}

// NewComplexID creates a new random ComplexID
func NewComplexID() ComplexID {
	return ComplexID{value: uuid.New().String()}
}

// NewComplexIDFromString creates a ComplexID from an existing string
func NewComplexIDFromString(id string) (ComplexID, error) {
	if id == "" {
		return ComplexID{}, errors.New("complex ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ComplexID{}, errors.New("complex ID must be a valid UUID")
	}
	return ComplexID{value: id}, nil
}

// String returns the string representation of the ComplexID
func (id ComplexID) String() string {
	return id.value
}

// Equals checks if two ComplexIDs are equal
func (id ComplexID) Equals(other ComplexID) bool {
	return id.value == other.value
}

// IsZero checks if the ComplexID is the zero value
func (id ComplexID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ComplexID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ComplexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ComplexID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
