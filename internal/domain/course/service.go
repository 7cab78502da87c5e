package course

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"luma/internal/storage"
)

type Service struct {
	repo       Repository
	store      storage.ObjectStore
	maxPerUser int64
}

func NewService(repo Repository, store storage.ObjectStore, maxPerUser int64) *Service {
	return &Service{repo: repo, store: store, maxPerUser: maxPerUser}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateCourseRequest) (*Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 255 {
		return nil, ErrValidation
	}

	n, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n >= s.maxPerUser {
		return nil, ErrCourseLimitReached
	}

	exists, err := s.repo.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	c := &Course{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID int64, id string) (*Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]CourseWithStats, error) {
	return s.repo.ListByUserWithStats(ctx, userID)
}

// Delete removes the course and its files. The row deletes are transactional
// and authoritative; blob removal is best-effort and only logged on failure.
func (s *Service) Delete(ctx context.Context, userID int64, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}

	paths, err := s.repo.DeleteWithFiles(ctx, id)
	if err != nil {
		return err
	}

	if len(paths) > 0 && s.store != nil {
		if err := s.store.Remove(ctx, paths); err != nil {
			log.Printf("course_delete_blob_cleanup course_id=%s objects=%d error=%q", id, len(paths), err)
		}
	}
	return nil
}
