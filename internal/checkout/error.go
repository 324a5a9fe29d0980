package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrBranchNotChosen    = errors.New("branch is not selected")
	ErrLoyaltyUnavailable = errors.New("loyalty balance is unavailable")
)
