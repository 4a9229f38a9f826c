package place

import "github.com/goliatone/go-errors"

const (
	TextCodePlaceNotFound = "PLACE_NOT_FOUND"
)

// ErrPlaceNotFound is returned when an id does not resolve to a place
var ErrPlaceNotFound = errors.New("place not found", errors.CategoryNotFound).
	WithTextCode(TextCodePlaceNotFound).
	WithCode(errors.CodeNotFound)
