package service

import "errors"

var (
	ErrInvalidRadius   = errors.New("radius must be a finite number")
	ErrRadiusTooLarge  = errors.New("radius exceeds the maximum allowed")
	ErrInvalidSubtotal = errors.New("subtotal must not be negative")
	ErrBranchNotOwned  = errors.New("branch does not belong to merchant")
)
