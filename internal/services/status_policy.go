// internal/services/status_policy.go
package services

import (
	"fmt"

	"github.com/guanl20/Blocktrust/internal/models"
)

// StatusPolicy decides whether a product may move from one status to another.
type StatusPolicy interface {
	Name() string
	CheckTransition(from, to models.ProductStatus) error
}

// StrictStatusPolicy allows exactly one step forward: Created to InTransit
// to Delivered. Delivered is terminal.
type StrictStatusPolicy struct{}

func (StrictStatusPolicy) Name() string { return "strict" }

func (StrictStatusPolicy) CheckTransition(from, to models.ProductStatus) error {
	if !to.Valid() {
		return invalid("unknown status %d", to)
	}
	if from.Terminal() {
		return invalid("product is already %s", from)
	}
	if to != from+1 {
		return invalid("cannot move from %s to %s", from, to)
	}
	return nil
}

// PermissiveStatusPolicy accepts any valid status, including moving
// backwards or staying put.
type PermissiveStatusPolicy struct{}

func (PermissiveStatusPolicy) Name() string { return "permissive" }

func (PermissiveStatusPolicy) CheckTransition(_, to models.ProductStatus) error {
	if !to.Valid() {
		return invalid("unknown status %d", to)
	}
	return nil
}

func StatusPolicyByName(name string) (StatusPolicy, error) {
	switch name {
	case "", "strict":
		return StrictStatusPolicy{}, nil
	case "permissive":
		return PermissiveStatusPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown status policy %q", name)
	}
}
