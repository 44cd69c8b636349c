package domain

import (
	"errors"
	"fmt"
)

var (
	ErrGroupNotFound            = errors.New("group_not_found")
	ErrMissingReferenceCategory = errors.New("missing_reference_category")
	ErrUnsupportedFormat        = errors.New("unsupported_format")
	ErrMissingRange             = errors.New("missing_range")
)

// MissingCategoryError names the category table and the display name it lacks.
type MissingCategoryError struct {
	Table string
	Name  string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("%s: %s has no entry named %q", ErrMissingReferenceCategory, e.Table, e.Name)
}

func (e *MissingCategoryError) Is(target error) bool {
	return target == ErrMissingReferenceCategory
}
