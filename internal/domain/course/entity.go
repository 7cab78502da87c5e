package course

import "time"

// Course groups a user's uploaded PDFs. (user_id, name) is unique.
type Course struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index;uniqueIndex:idx_courses_user_name" json:"user_id"`
	Name      string    `gorm:"column:name;size:255;not null;uniqueIndex:idx_courses_user_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Course) TableName() string { return "courses" }
