package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, event date outside the trip
// range). Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrSchemaMissing is returned by repo functions when a queried table does
// not exist in the connected database. It is the signal that a deployment
// still runs the legacy schedule schema; callers fall back to the legacy
// tables instead of surfacing it to the user.
var ErrSchemaMissing = errors.New("schema missing")
