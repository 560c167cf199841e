package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of a schema error. Codes double as diagnostic codes.
type Code string

const (
	CodeEmptyRecord           Code = "empty_record"
	CodeDuplicateExternalName Code = "duplicate_external_name"
	CodeDuplicateFieldName    Code = "duplicate_field_name"
	CodeInvalidName           Code = "invalid_name"
	CodeInvalidType           Code = "invalid_type"
	CodeDuplicateRecord       Code = "duplicate_record"
	CodeRecursiveRecord       Code = "recursive_record"
)

// Sentinels matched by errors.Is against any *Error of the same code.
var (
	ErrEmptyRecord           = errors.New("record has no fields")
	ErrDuplicateExternalName = errors.New("duplicate external name")
	ErrDuplicateFieldName    = errors.New("duplicate field name")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidType           = errors.New("invalid type expression")
	ErrDuplicateRecord       = errors.New("duplicate record")
	ErrRecursiveRecord       = errors.New("record contains itself by value")
)

var sentinels = map[Code]error{
	CodeEmptyRecord:           ErrEmptyRecord,
	CodeDuplicateExternalName: ErrDuplicateExternalName,
	CodeDuplicateFieldName:    ErrDuplicateFieldName,
	CodeInvalidName:           ErrInvalidName,
	CodeInvalidType:           ErrInvalidType,
	CodeDuplicateRecord:       ErrDuplicateRecord,
	CodeRecursiveRecord:       ErrRecursiveRecord,
}

// Error is a generation-time schema error. It is fatal to generation.
type Error struct {
	Code   Code
	Record string
	// Field is the declared name of the offending field, empty for record-level errors.
	Field string
	// Position is the field's declaration index, or -1 for record-level errors.
	Position int
	Detail   string
}

func recordError(code Code, record, detail string) *Error {
	return &Error{Code: code, Record: record, Position: -1, Detail: detail}
}

func fieldError(code Code, record string, f FieldSpec, detail string) *Error {
	return &Error{Code: code, Record: record, Field: f.Name, Position: f.Index, Detail: detail}
}

// Error returns a human-readable description of the schema error.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString("schema")

	if e.Record != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Record)
	}

	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %q (#%d)", e.Field, e.Position)
	}

	sb.WriteString(": ")
	sb.WriteString(e.Unwrap().Error())

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	return sb.String()
}

// Unwrap returns the sentinel for the error's code.
func (e *Error) Unwrap() error {
	if s, ok := sentinels[e.Code]; ok {
		return s
	}

	return errors.New(string(e.Code))
}

// Errors flattens err into its *Error leaves, looking through errors.Join
// trees and %w wrapping.
func Errors(err error) []*Error {
	if err == nil {
		return nil
	}

	switch x := err.(type) {
	case *Error:
		return []*Error{x}
	case interface{ Unwrap() []error }:
		var res []*Error
		for _, e := range x.Unwrap() {
			res = append(res, Errors(e)...)
		}

		return res
	case interface{ Unwrap() error }:
		return Errors(x.Unwrap())
	}

	return nil
}
