package value_objects

import "fmt"

// GrantType tells whether a direct user entry allows or forbids a permission.
type GrantType string

const (
	GrantTypeGrant GrantType = "grant"
	GrantTypeDeny  GrantType = "deny"
)

func NewGrantType(value string) (GrantType, error) {
	switch GrantType(value) {
	case GrantTypeGrant, GrantTypeDeny:
		return GrantType(value), nil
	case "":
		return "", fmt.Errorf("grant type cannot be empty")
	default:
		return "", fmt.Errorf("invalid grant type: %s", value)
	}
}

func (g GrantType) String() string {
	return string(g)
}

func (g GrantType) IsGrant() bool {
	return g == GrantTypeGrant
}

func (g GrantType) IsDeny() bool {
	return g == GrantTypeDeny
}
