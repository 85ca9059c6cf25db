package models

import "fmt"

// LiveryName is a value object representing a valid livery display name.
// Encapsulates validation rules: 3 <= len(name) <= 120.
type LiveryName string

const (
	minLiveryNameLength = 3
	maxLiveryNameLength = 120
)

// NewLiveryName constructs a valid LiveryName or returns an error if constraints are violated.
func NewLiveryName(s string) (LiveryName, error) {
	if len(s) < minLiveryNameLength {
		return "", fmt.Errorf("livery name must be at least %d characters", minLiveryNameLength)
	}
	if len(s) > maxLiveryNameLength {
		return "", fmt.Errorf("livery name must not exceed %d characters", maxLiveryNameLength)
	}
	return LiveryName(s), nil
}

// String returns the underlying string value.
func (n LiveryName) String() string {
	return string(n)
}
