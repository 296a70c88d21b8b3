package value_objects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name is a staff member's display name.
type Name struct {
	value string
}

func NewName(value string) (*Name, error) {
	normalized := strings.Join(strings.Fields(value), " ")

	if normalized == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if len(normalized) < 2 {
		return nil, fmt.Errorf("name must be at least 2 characters long")
	}
	if len(normalized) > 100 {
		return nil, fmt.Errorf("name cannot exceed 100 characters")
	}

	return &Name{value: normalized}, nil
}

func (n *Name) String() string {
	return n.value
}

// DisplayName title-cases every word, e.g. "ana maria" -> "Ana Maria".
func (n *Name) DisplayName() string {
	caser := cases.Title(language.English)
	return caser.String(strings.ToLower(n.value))
}

func (n *Name) Equals(other *Name) bool {
	if n == nil || other == nil {
		return n == other
	}
	return strings.EqualFold(n.value, other.value)
}
