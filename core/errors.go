package core

import "github.com/pkg/errors"

// FieldError tells why a single input field was rejected.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects an input as a whole (Err), field by field (Fields), or both.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (v ValidationError) Error() string {
	switch {
	case v.Err != nil:
		return v.Err.Error()
	case len(v.Fields) > 0:
		return v.Fields[0].Field + ": " + v.Fields[0].Error
	}
	return "invalid input"
}

// FieldMap indexes the field messages by field name; nil when there are none.
func (v ValidationError) FieldMap() map[string]string {
	if len(v.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(v.Fields))
	for _, f := range v.Fields {
		m[f.Field] = f.Error
	}
	return m
}

// shutdownError asks the running server to stop gracefully.
type shutdownError string

func NewShutdownError(msg string) error { return shutdownError(msg) }

func (e shutdownError) Error() string { return string(e) }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(shutdownError)
	return ok
}
