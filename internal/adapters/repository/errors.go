package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("dataset not found")
	ErrInvalidLimit = errors.New("invalid listing limit")
	ErrTooLarge     = errors.New("item exceeds the store's weight budget")
)
