package domain

import "errors"

// Error kinds surfaced by the intake flow. Storage adapters wrap the
// underlying cause around one of the storage sentinels.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageParse = errors.New("storage parse failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// Client messages for rejected submissions.
const (
	MsgMissingFields      = "All required fields must be filled"
	MsgInvalidCoordinates = "Invalid latitude or longitude"
)

// InputError is a client-caused rejection carrying the message returned to the caller.
type InputError struct {
	Message string
}

func NewInputError(msg string) *InputError {
	return &InputError{Message: msg}
}

func (e *InputError) Error() string { return "invalid input: " + e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }
