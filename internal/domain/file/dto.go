package file

import "time"

// UploadRequest asks for an upload slot. CourseID comes from the URL.
type UploadRequest struct {
	CourseID string `json:"-"`
	FileName string `json:"file_name" binding:"required,min=1,max=255"`
	FileSize int64  `json:"file_size" binding:"required,gt=0"`
	FileType string `json:"file_type" binding:"required"`
}

// UploadTicket is a successful admission: a provisional File row plus a
// time-limited credential for the client to PUT the bytes directly.
type UploadTicket struct {
	FileID      string    `json:"file_id"`
	UploadURL   string    `json:"upload_url"`
	StoragePath string    `json:"storage_path"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// StatusReport is posted by the processing worker on the internal callback.
type StatusReport struct {
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error"`
}
