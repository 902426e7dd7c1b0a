package services

import "errors"

// Error kinds. Every error returned by CertificateService matches exactly
// one of these through errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrUpload      = errors.New("image upload failed")
	ErrPersistence = errors.New("database operation failed")
	ErrNotFound    = errors.New("certificate not found")
)

type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func uploadError(err error) error {
	return &Error{Kind: ErrUpload, Message: "failed to upload image", Err: err}
}

func persistenceError(msg string, err error) error {
	return &Error{Kind: ErrPersistence, Message: msg, Err: err}
}

func notFoundError() error {
	return &Error{Kind: ErrNotFound, Message: "Certificate not found"}
}
