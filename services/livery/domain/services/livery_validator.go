// Package services contains stateless domain services for the livery bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// ValidateName enforces business rules for LiveryName beyond the structural
// constraints enforced by the LiveryName constructor (length 3–120).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
func ValidateName(name models.LiveryName) error {
	s := name.String()

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("livery name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("livery name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("livery name must not contain consecutive spaces")
	}

	return nil
}

// ValidateLiveryForCreation performs cross-field validation on a fully-constructed
// Livery aggregate before it is persisted.
func ValidateLiveryForCreation(l *models.Livery) error {
	if l == nil {
		return fmt.Errorf("livery cannot be nil")
	}

	if err := ValidateName(l.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if l.ID == "" {
		return fmt.Errorf("id must be set")
	}

	if l.OwnerID == "" {
		return fmt.Errorf("owner_id must be set")
	}

	if l.PopularityScore < models.MinPopularityScore || l.PopularityScore > models.MaxPopularityScore {
		return fmt.Errorf("popularity score must be in %d..%d", models.MinPopularityScore, models.MaxPopularityScore)
	}

	if l.Downloads < 0 {
		return fmt.Errorf("downloads must not be negative")
	}

	if len(l.SearchTokens) == 0 {
		return fmt.Errorf("at least one search token is required")
	}

	return nil
}
