package loyalty

import "errors"

var (
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrNegativeAmount    = errors.New("coin amount must not be negative")
	ErrUserRequired      = errors.New("user id is required")
)
