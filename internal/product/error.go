package product

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductsNotFound = errors.New("one or more products not found")
	ErrNothingToUpdate  = errors.New("no product fields to update")
)
