// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product with this name already exists")
)
