package srcasset

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrSignatureMismatch is matched by *SignatureError.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrUnexpectedEnd is matched by *UnexpectedEndError.
	ErrUnexpectedEnd = errors.New("unexpected end of buffer")

	// ErrInvalidVariant is matched by *InvalidVariantError.
	ErrInvalidVariant = errors.New("invalid variant")
)

// SignatureError is returned when a magic tag does not match.
type SignatureError struct {
	Expected string
	Found    [4]byte
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature mismatch: expected %q, got %q", e.Expected, e.Found[:])
}

func (e *SignatureError) Is(target error) bool {
	return target == ErrSignatureMismatch
}

// UnexpectedEndError is returned when a buffer is shorter than required.
// Additional is the number of missing bytes.
type UnexpectedEndError struct {
	Additional int
}

func (e *UnexpectedEndError) Error() string {
	return "unexpected end of buffer: need " + strconv.Itoa(e.Additional) + " more bytes"
}

func (e *UnexpectedEndError) Is(target error) bool {
	return target == ErrUnexpectedEnd
}

// InvalidVariantError is returned when an enumerated field holds a value
// outside its known domain [Min, Max].
type InvalidVariantError struct {
	Type  string
	Min   int64
	Max   int64
	Found int64
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid %s variant %d (expected %d..%d)", e.Type, e.Found, e.Min, e.Max)
}

func (e *InvalidVariantError) Is(target error) bool {
	return target == ErrInvalidVariant
}
