package records

import "errors"

// ErrNotFound matches every not found error of this package
var ErrNotFound = errors.New("not found")

var (
	ErrPatientNotFound      error = &notFoundError{"no patient matches the given name"}
	ErrPrescriptionNotFound error = &notFoundError{"prescription reference not found"}
	ErrReferenceNotFound    error = &notFoundError{"no reference matches the given pattern"}
)

var (
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrInvalidArgument  = errors.New("invalid argument")
)

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err is any of the not found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
