package course

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	ListByUserWithStats(ctx context.Context, userID int64) ([]CourseWithStats, error)
	// DeleteWithFiles removes the course row and its file rows in one
	// transaction and returns the storage paths of the removed files so the
	// caller can clean up blobs afterwards.
	DeleteWithFiles(ctx context.Context, id string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Course) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		// The unique index on (user_id, name) backstops the service's
		// read-then-write duplicate check.
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *repository) GetByID(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Course{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *repository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Course{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) ListByUserWithStats(ctx context.Context, userID int64) ([]CourseWithStats, error) {
	var rows []CourseWithStats
	q := `
SELECT
  c.id,
  c.name,
  c.created_at,
  COUNT(f.id)                  AS file_count,
  COALESCE(SUM(f.size_bytes), 0) AS size_bytes
FROM courses c
LEFT JOIN files f ON f.course_id = c.id
WHERE c.user_id = ?
GROUP BY c.id, c.name, c.created_at
ORDER BY c.created_at DESC
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *repository) DeleteWithFiles(ctx context.Context, id string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`SELECT storage_path FROM files WHERE course_id = ?`, id).
			Scan(&paths).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM files WHERE course_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM courses WHERE id = ?`, id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
