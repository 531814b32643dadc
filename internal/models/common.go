// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source %T", value)
	}

	return json.Unmarshal(bytes, j)
}

// Clone returns a shallow copy so callers cannot mutate an appended record.
func (j JSONB) Clone() JSONB {
	if j == nil {
		return nil
	}
	out := make(JSONB, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// Enums
type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
	RoleAdmin        Role = "admin"
)

var validRoles = map[Role]bool{
	RoleManufacturer: true,
	RoleDistributor:  true,
	RoleRetailer:     true,
	RoleAdmin:        true,
}

func (r Role) Valid() bool {
	return validRoles[r]
}

// SupplyChainRoles are the roles that take part in moving goods.
func SupplyChainRoles() []Role {
	return []Role{RoleManufacturer, RoleDistributor, RoleRetailer}
}

// ProductStatus is stored and compared by ordinal; the numeric value is
// also the lifecycle order.
type ProductStatus uint8

const (
	ProductStatusCreated ProductStatus = iota
	ProductStatusInTransit
	ProductStatusDelivered
)

var productStatusNames = [...]string{"Created", "InTransit", "Delivered"}

func (s ProductStatus) Valid() bool {
	return int(s) < len(productStatusNames)
}

func (s ProductStatus) String() string {
	if !s.Valid() {
		return "Unknown(" + strconv.Itoa(int(s)) + ")"
	}
	return productStatusNames[s]
}

// Terminal reports whether no further lifecycle step exists.
func (s ProductStatus) Terminal() bool {
	return s == ProductStatusDelivered
}

// ParseProductStatus accepts the enum name in any case, the snake_case
// form ("in_transit") or the ordinal ("1").
func ParseProductStatus(raw string) (ProductStatus, error) {
	value := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n >= len(productStatusNames) {
			return 0, fmt.Errorf("invalid product status %q", raw)
		}
		return ProductStatus(n), nil
	}

	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(value))
	for i, name := range productStatusNames {
		if strings.ToLower(name) == normalized {
			return ProductStatus(i), nil
		}
	}
	return 0, fmt.Errorf("invalid product status %q", raw)
}

func (s ProductStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("invalid product status %v", v)
		}
		text = strconv.Itoa(int(v))
	default:
		return fmt.Errorf("invalid product status %s", string(data))
	}

	parsed, err := ParseProductStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type TransactionType string

const (
	TransactionTypeCreation     TransactionType = "creation"
	TransactionTypeTransfer     TransactionType = "transfer"
	TransactionTypeInspection   TransactionType = "inspection"
	TransactionTypeStatusUpdate TransactionType = "status-update"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeCreation, TransactionTypeTransfer, TransactionTypeInspection, TransactionTypeStatusUpdate:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPending || s == TransactionStatusCompleted
}
