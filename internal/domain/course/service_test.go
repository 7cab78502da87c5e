package course

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"luma/internal/domain/file"

	_ "modernc.org/sqlite"
)

type fakeStore struct {
	mu      sync.Mutex
	removed []string
}

func (s *fakeStore) PresignUpload(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectName, nil
}

func (s *fakeStore) PresignDownload(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectName, nil
}

func (s *fakeStore) Remove(_ context.Context, objectNames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, objectNames...)
	return nil
}

func setupTestService(t *testing.T, maxPerUser int64) (*Service, *gorm.DB, *fakeStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:course_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Course{}, &file.File{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	store := &fakeStore{}
	return NewService(NewRepository(db), store, maxPerUser), db, store
}

func TestCreateCourse(t *testing.T) {
	svc, _, _ := setupTestService(t, 10)
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, CreateCourseRequest{Name: "Operating Systems"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.ID == "" || c.Name != "Operating Systems" {
		t.Fatalf("unexpected course: %+v", c)
	}

	_, err = svc.Create(ctx, 1, CreateCourseRequest{Name: "Operating Systems"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// The same name is fine for a different user.
	if _, err := svc.Create(ctx, 2, CreateCourseRequest{Name: "Operating Systems"}); err != nil {
		t.Fatalf("Create for second user returned error: %v", err)
	}
}

func TestCreateDuplicateNameIndexBackstop(t *testing.T) {
	_, db, _ := setupTestService(t, 10)
	ctx := context.Background()
	repo := NewRepository(db)

	if err := repo.Create(ctx, &Course{ID: uuid.New().String(), UserID: 1, Name: "Linear Algebra"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// A racing duplicate that slipped past the service's pre-check hits the
	// unique index and must still surface as ErrDuplicateName.
	err := repo.Create(ctx, &Course{ID: uuid.New().String(), UserID: 1, Name: "Linear Algebra"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName from index violation, got %v", err)
	}
}

func TestCreateCourseLimit(t *testing.T) {
	svc, _, _ := setupTestService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, 1, CreateCourseRequest{Name: fmt.Sprintf("Course %d", i)}); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, 1, CreateCourseRequest{Name: "One Too Many"}); !errors.Is(err, ErrCourseLimitReached) {
		t.Fatalf("expected ErrCourseLimitReached, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := setupTestService(t, 10)
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, CreateCourseRequest{Name: "Calculus"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(ctx, 2, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, 1, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListWithStats(t *testing.T) {
	svc, db, _ := setupTestService(t, 10)
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, CreateCourseRequest{Name: "Physics"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	for i, size := range []int64{100, 250} {
		f := &file.File{
			ID: uuid.New().String(), CourseID: c.ID, Name: fmt.Sprintf("f%d.pdf", i),
			SizeBytes: size, StoragePath: fmt.Sprintf("p/%d", i), Status: file.StatusReady,
		}
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
	}

	rows, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 course, got %d", len(rows))
	}
	if rows[0].FileCount != 2 || rows[0].SizeBytes != 350 {
		t.Fatalf("unexpected stats: %+v", rows[0])
	}
}

func TestDeleteCascadesAndCleansBlobs(t *testing.T) {
	svc, db, store := setupTestService(t, 10)
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, CreateCourseRequest{Name: "History"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	f := &file.File{
		ID: uuid.New().String(), CourseID: c.ID, Name: "notes.pdf",
		SizeBytes: 10, StoragePath: "users/1/notes.pdf", Status: file.StatusReady,
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	if err := svc.Delete(ctx, 2, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.Delete(ctx, 1, c.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var n int64
	db.Model(&file.File{}).Where("course_id = ?", c.ID).Count(&n)
	if n != 0 {
		t.Fatalf("expected file rows removed, got %d", n)
	}
	if len(store.removed) != 1 || store.removed[0] != "users/1/notes.pdf" {
		t.Fatalf("expected blob cleanup, got %v", store.removed)
	}
}
