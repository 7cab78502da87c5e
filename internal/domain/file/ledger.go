package file

import "gorm.io/gorm"

// The quota ledger: live aggregates the admission decision is based on.
// Both reads must run on the admission transaction handle so two concurrent
// admissions cannot both act on the same stale aggregate.

func countByCourse(tx *gorm.DB, courseID string) (int64, error) {
	var n int64
	err := tx.Model(&File{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

// sumSizeByUser sums size_bytes over all of the user's files across all
// courses. UPLOADING reservations count: quota is reserved at admission.
func sumSizeByUser(tx *gorm.DB, userID int64) (int64, error) {
	var total int64
	q := `
SELECT COALESCE(SUM(f.size_bytes), 0)
FROM files f
JOIN courses c ON c.id = f.course_id
WHERE c.user_id = ?
`
	err := tx.Raw(q, userID).Scan(&total).Error
	return total, err
}

// courseOwner resolves the owning user of a course, ErrNotFound when the
// course does not exist.
func courseOwner(tx *gorm.DB, courseID string) (int64, error) {
	var row struct {
		UserID int64 `gorm:"column:user_id"`
	}
	res := tx.Raw(`SELECT user_id FROM courses WHERE id = ?`, courseID).Scan(&row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return row.UserID, nil
}
