package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPathNotFound is returned when the workspace root or a manifest does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrWorkspaceNotFound is returned when the root manifest has no [workspace] table.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrNoMembers is returned when [workspace] has no members array.
	ErrNoMembers = errors.New("no members in workspace")
	// ErrUnexpectedValue is returned when a manifest value has the wrong shape.
	ErrUnexpectedValue = errors.New("unexpected value")
	// ErrPropertyNotFound is returned when a required manifest key is missing.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrInvalidVersion is returned when a dependency table matches no version field.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrAmbiguousVersion is returned in strict mode when a dependency table
	// matches more than one version field.
	ErrAmbiguousVersion = errors.New("ambiguous version")
)

// PathNotFoundError reports a missing file or directory.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%s was not found", e.Path)
}

func (e *PathNotFoundError) Unwrap() error { return ErrPathNotFound }

// UnexpectedValueError reports a value that is neither of the accepted shapes.
type UnexpectedValueError struct {
	What  string
	Value any
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("unexpected value for %s %s", e.What, describe(e.Value))
}

func (e *UnexpectedValueError) Unwrap() error { return ErrUnexpectedValue }

// PropertyNotFoundError reports a required key missing from a table.
type PropertyNotFoundError struct {
	Property string
	Context  any
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property %s not found in %s", e.Property, describe(e.Context))
}

func (e *PropertyNotFoundError) Unwrap() error { return ErrPropertyNotFound }

// InvalidVersionError reports a dependency table with no recognised version field.
type InvalidVersionError struct {
	Name  string
	Value any
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version for %s %s", e.Name, describe(e.Value))
}

func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// AmbiguousVersionError reports a dependency table where several version
// fields match at once.
type AmbiguousVersionError struct {
	Name   string
	Fields []string
}

func (e *AmbiguousVersionError) Error() string {
	return fmt.Sprintf("ambiguous version for %s: fields %s are mutually exclusive",
		e.Name, strings.Join(e.Fields, ", "))
}

func (e *AmbiguousVersionError) Unwrap() error { return ErrAmbiguousVersion }
