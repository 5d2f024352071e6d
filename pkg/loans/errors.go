package loans

import "errors"

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrZeroIndex      = errors.New("zero borrow index")
	ErrZeroTimestamp  = errors.New("zero block timestamp")
)
