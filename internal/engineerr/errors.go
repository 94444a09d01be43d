// Package engineerr defines the typed error kinds returned across the
// property engine boundary. The engine never panics or unwinds a stack for
// a user-triggered failure: every Get/Set/Save/Restore returns one of these
// kinds or nil.
package engineerr

import "fmt"

// Kind is one of the seven error categories the property engine can report.
type Kind int

const (
	// InvalidValue marks a parse failure or a semantically out-of-range value.
	InvalidValue Kind = iota
	// InvalidState marks an operation forbidden in the container's current state.
	InvalidState
	// InvalidProperty marks an unknown property name or a bad index.
	InvalidProperty
	// Permission marks a principal lacking rights for the operation.
	Permission
	// NotSupported marks a property unsupported on this host or a frozen
	// controller set.
	NotSupported
	// ResourceNotAvailable marks a tree-wide resource that would be overcommitted.
	ResourceNotAvailable
	// Unknown marks an internal/programmer error.
	Unknown
)

func (k Kind) String() string {
	switch k {
	case InvalidValue:
		return "InvalidValue"
	case InvalidState:
		return "InvalidState"
	case InvalidProperty:
		return "InvalidProperty"
	case Permission:
		return "Permission"
	case NotSupported:
		return "NotSupported"
	case ResourceNotAvailable:
		return "ResourceNotAvailable"
	default:
		return "Unknown"
	}
}

// Error carries a Kind plus enough context to build a diagnostic: which
// property was involved and the offending fragment of input, if any.
type Error struct {
	Kind     Kind
	Property string
	Fragment string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Property != "" {
		msg += " " + e.Property
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Fragment != "" {
		msg += fmt.Sprintf(" (%q)", e.Fragment)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, engineerr.InvalidValue) style comparisons against
// a bare Kind by wrapping it in a sentinel-free Error.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newf(k Kind, property, fragment string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Property: property, Fragment: fragment, Reason: fmt.Sprintf(format, args...), Err: err}
}

// InvalidValuef builds an InvalidValue error for property prop with the
// offending fragment and a formatted reason.
func InvalidValuef(prop, fragment, format string, args ...interface{}) *Error {
	return newf(InvalidValue, prop, fragment, nil, format, args...)
}

// InvalidStatef builds an InvalidState error for property prop.
func InvalidStatef(prop, format string, args ...interface{}) *Error {
	return newf(InvalidState, prop, "", nil, format, args...)
}

// InvalidPropertyf builds an InvalidProperty error.
func InvalidPropertyf(prop, format string, args ...interface{}) *Error {
	return newf(InvalidProperty, prop, "", nil, format, args...)
}

// Permissionf builds a Permission error for property prop.
func Permissionf(prop, format string, args ...interface{}) *Error {
	return newf(Permission, prop, "", nil, format, args...)
}

// NotSupportedf builds a NotSupported error for property prop.
func NotSupportedf(prop, format string, args ...interface{}) *Error {
	return newf(NotSupported, prop, "", nil, format, args...)
}

// ResourceNotAvailablef builds a ResourceNotAvailable error for property prop.
func ResourceNotAvailablef(prop, format string, args ...interface{}) *Error {
	return newf(ResourceNotAvailable, prop, "", nil, format, args...)
}

// Unknownf builds an Unknown/internal error for property prop.
func Unknownf(prop string, err error, format string, args ...interface{}) *Error {
	return newf(Unknown, prop, "", err, format, args...)
}

// Of reports the Kind of err, defaulting to Unknown if err is not one of
// ours (or nil, which is not an error at all and should not be passed here).
func Of(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Unknown
}
