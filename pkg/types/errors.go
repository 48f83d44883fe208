package types

import (
	"errors"
	"fmt"
	"strings"
)

// Business-rule errors. These are expected conditions reported to the user;
// none of them leaves persisted state modified.
var (
	ErrDuplicateName     = errors.New("stockpile: material name already exists")
	ErrNotFound          = errors.New("stockpile: material not found")
	ErrNegativeStock     = errors.New("stockpile: stock cannot go negative")
	ErrInvalidAmount     = errors.New("stockpile: amount per unit must be positive")
	ErrUnknownMaterial   = errors.New("stockpile: recipe references an unknown material")
	ErrNoRecipe          = errors.New("stockpile: no recipe defined for product")
	ErrInsufficientStock = errors.New("stockpile: insufficient stock")
)

// Input validation errors.
var (
	ErrInvalidName     = errors.New("stockpile: name must not be empty")
	ErrInvalidQuantity = errors.New("stockpile: invalid quantity")
)

// ErrStoreFailure labels faults in the underlying storage. Store
// implementations wrap the cause so both are visible to errors.Is.
var ErrStoreFailure = errors.New("stockpile: store failure")

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("stockpile: store is detached")
	ErrAlreadyAttached = errors.New("stockpile: store is already attached")
)

// InsufficientStockError carries every material that could not cover an
// order. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Product   string
	Shortages []Shortage
}

// Error lists every shortage on one line.
func (e *InsufficientStockError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s for %q:", ErrInsufficientStock.Error(), e.Product)
	for _, s := range e.Shortages {
		fmt.Fprintf(&sb, " %s (have %s, need %s);", s.MaterialName, s.Stock, s.Required)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Is reports whether target is ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

var businessErrors = []error{
	ErrDuplicateName,
	ErrNotFound,
	ErrNegativeStock,
	ErrInvalidAmount,
	ErrUnknownMaterial,
	ErrNoRecipe,
	ErrInsufficientStock,
	ErrInvalidName,
	ErrInvalidQuantity,
}

// IsBusinessError reports whether err is an expected, user-facing condition
// rather than a storage or programming fault.
func IsBusinessError(err error) bool {
	if err == nil || errors.Is(err, ErrStoreFailure) {
		return false
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
