package file

import "errors"

// Quota and validation rejections are expected, user-facing outcomes; only
// ErrInternal marks a collaborator failure worth logging.
var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("file or course not found")
	ErrForbidden             = errors.New("you do not own this resource")
	ErrInvalidFileType       = errors.New("file type is not allowed")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrFileCountLimitReached = errors.New("course file limit reached")
	ErrStorageLimitReached   = errors.New("storage quota exceeded")
	ErrDuplicateFileName     = errors.New("a file with this name already exists in the course")
	ErrInvalidState          = errors.New("invalid file status for this operation")
	ErrInternal              = errors.New("internal error")
)
