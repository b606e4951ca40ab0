package camp

import "errors"

var (
	ErrCampNotFound          = errors.New("camp not found")
	ErrAccommodationNotFound = errors.New("accommodation not found")
	ErrNotOwner              = errors.New("only the camp host can do this")
	ErrNoAccommodations      = errors.New("camp needs at least one accommodation before publishing")
	ErrInvalidStatus         = errors.New("camp status does not allow this action")
)
