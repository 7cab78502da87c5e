package course

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("course not found")
	ErrForbidden          = errors.New("you do not own this course")
	ErrDuplicateName      = errors.New("a course with this name already exists")
	ErrCourseLimitReached = errors.New("course limit reached")
)
