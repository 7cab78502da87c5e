package course

import "time"

type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type CourseWithStats struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileCount int64     `json:"file_count"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
