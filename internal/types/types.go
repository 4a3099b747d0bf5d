// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the manager, storage, handlers, and CLI can all import types without
// depending on each other.
package types

import (
	"errors"
	"fmt"
)

// Student represents a single student record, keyed by SID.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//     Without this tag Go uses the exported field name, e.g. "Name".
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty;
//     "oneof" restricts the value to the listed literals.
type Student struct {
	SID    string `json:"sid"    validate:"required,alphanum"`
	Name   string `json:"name"   validate:"required"`
	Age    int    `json:"age"    validate:"required,gte=1,lte=150"`
	Gender string `json:"gender" validate:"required,oneof=Male Female"`
	Major  string `json:"major"  validate:"required"`
}

// String renders the record as one display line for console output.
func (s Student) String() string {
	return fmt.Sprintf("ID: %s\tName: %s\tAge: %d\tGender: %s\tMajor: %s",
		s.SID, s.Name, s.Age, s.Gender, s.Major)
}

// Domain error kinds. Callers match them with errors.Is after the usual
// fmt.Errorf("...: %w", err) wrapping, so each layer can add context
// without hiding the kind.
var (
	// ErrStudentNotFound is returned when an operation references a SID
	// that is not in the roster.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentExists is returned when adding a student whose SID is
	// already taken.
	ErrStudentExists = errors.New("student already exists")

	// ErrInvalidStudent is returned when a record fails business
	// validation (empty name, age out of range, unknown gender, ...).
	ErrInvalidStudent = errors.New("invalid student record")
)
