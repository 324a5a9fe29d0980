package branch

import (
	"errors"
	"fmt"

	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
)

var (
	ErrNoBranch   = errors.New("branch is not selected")
	ErrSuperseded = errors.New("branch changed while loading")
)

// LoadError reports which of the branch fetches failed. Results of the
// other fetch are applied regardless.
type LoadError struct {
	BranchID    catalog.ID
	ProductsErr error
	OrdersErr   error
}

func (e *LoadError) Error() string {
	switch {
	case e.ProductsErr != nil && e.OrdersErr != nil:
		return fmt.Sprintf("branch %s: products - %v; orders - %v", e.BranchID, e.ProductsErr, e.OrdersErr)
	case e.ProductsErr != nil:
		return fmt.Sprintf("branch %s: products - %v", e.BranchID, e.ProductsErr)
	default:
		return fmt.Sprintf("branch %s: orders - %v", e.BranchID, e.OrdersErr)
	}
}

func (e *LoadError) Unwrap() []error {
	var errs []error
	if e.ProductsErr != nil {
		errs = append(errs, e.ProductsErr)
	}
	if e.OrdersErr != nil {
		errs = append(errs, e.OrdersErr)
	}
	return errs
}

// Total is true when nothing could be loaded.
func (e *LoadError) Total() bool {
	return e.ProductsErr != nil && e.OrdersErr != nil
}
