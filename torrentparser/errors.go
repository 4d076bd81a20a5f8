package torrentparser

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is matched by errors for well-formed bencode that is not
	// valid torrent metadata.
	ErrSchema = errors.New("invalid torrent metadata")
	// ErrEncoding is matched by errors for text fields that are not UTF-8.
	ErrEncoding = errors.New("invalid text encoding")
)

// SchemaError reports a missing or mistyped metadata field.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrSchema, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchema, e.Field, e.Msg)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func schemaErrorf(field, format string, args ...interface{}) error {
	return &SchemaError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// EncodingError reports a text field holding bytes that are not valid UTF-8.
type EncodingError struct {
	Field string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %s is not valid UTF-8", ErrEncoding, e.Field)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
