package value_objects

import (
	"fmt"
	"regexp"
)

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Resource names a category of domain entity subject to access control,
// e.g. "orders" or "products".
type Resource string

const (
	ResourceDashboard Resource = "dashboard"
	ResourceProducts  Resource = "products"
	ResourceClients   Resource = "clients"
	ResourceOrders    Resource = "orders"
	ResourceComments  Resource = "comments"
	ResourceUsers     Resource = "users"
	ResourcePayments  Resource = "payments"
	ResourceReports   Resource = "reports"
	ResourceSystem    Resource = "system"
)

func NewResource(resource string) (Resource, error) {
	if resource == "" {
		return "", fmt.Errorf("resource cannot be empty")
	}
	if len(resource) > 50 {
		return "", fmt.Errorf("resource too long (max 50 characters)")
	}
	if !tagPattern.MatchString(resource) {
		return "", fmt.Errorf("invalid resource: %s", resource)
	}
	return Resource(resource), nil
}

func (r Resource) String() string {
	return string(r)
}

func (r Resource) Equals(other Resource) bool {
	return r == other
}
