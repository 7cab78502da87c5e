package file

import "time"

// Status is the upload lifecycle state. Transitions only move forward:
// UPLOADING -> PROCESSING -> READY | FAILED.
type Status string

const (
	StatusUploading  Status = "UPLOADING"
	StatusProcessing Status = "PROCESSING"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

// AllowedTypes are the accepted PDF MIME types.
var AllowedTypes = map[string]bool{
	"application/pdf":   true,
	"application/x-pdf": true,
}

// File is a course PDF. A row in UPLOADING state is a quota reservation:
// size_bytes counts against the owner's storage quota from the moment of
// admission, before the physical bytes exist in object storage.
type File struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	CourseID    string    `gorm:"column:course_id;size:36;not null;index;uniqueIndex:idx_files_course_name" json:"course_id"`
	Name        string    `gorm:"column:name;size:255;not null;uniqueIndex:idx_files_course_name" json:"name"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	MimeType    string    `gorm:"column:mime_type;size:64" json:"mime_type"`
	StoragePath string    `gorm:"column:storage_path;size:512;not null" json:"-"`
	Status      Status    `gorm:"column:status;size:16;not null" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (File) TableName() string { return "files" }

// JobFileProcess is the job name carried as the Kafka message key.
const JobFileProcess = "file.process"

// ProcessJob is the payload handed to the processing workers.
type ProcessJob struct {
	FileID      string `json:"file_id"`
	StoragePath string `json:"storage_path"`
}
