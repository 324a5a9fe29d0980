package storefront

import "errors"

var (
	errCatalogNotReady = errors.New("catalog is not loaded")
	errProductNotFound = errors.New("product not found in branch catalog")
	errSessionRequired = errors.New("session id is required")
	errUnauthorized    = errors.New("unauthorized")
)
