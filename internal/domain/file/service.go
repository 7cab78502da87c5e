package file

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"luma/internal/jobs"
	"luma/internal/storage"
)

// Limits are the admission bounds, fixed at construction from config.
type Limits struct {
	MaxFilesPerCourse int64
	MaxStoragePerUser int64 // bytes, aggregate per user
	MaxFileSize       int64 // bytes, single file
	UploadURLTTL      time.Duration
}

// Service owns the upload admission transaction and the
// UPLOADING -> PROCESSING edge of the file state machine. All cross-request
// coordination goes through the database; the service holds no locks.
type Service struct {
	db     *gorm.DB
	store  storage.ObjectStore
	queue  jobs.Queue
	limits Limits
}

func NewService(db *gorm.DB, store storage.ObjectStore, queue jobs.Queue, limits Limits) *Service {
	return &Service{db: db, store: store, queue: queue, limits: limits}
}

// StoragePathFor derives the object name deterministically from the owning
// user, course and file name.
func StoragePathFor(userID int64, courseID, fileName string) string {
	return fmt.Sprintf("users/%d/courses/%s/%s", userID, courseID, fileName)
}

// RequestUpload is the single admission point for new files. On success
// exactly one File row exists in UPLOADING state and the returned ticket
// carries a presigned PUT URL; on any rejection zero rows were created.
func (s *Service) RequestUpload(ctx context.Context, userID int64, req UploadRequest) (*UploadTicket, error) {
	name := strings.TrimSpace(req.FileName)
	if name == "" || len(name) > 255 || req.FileSize <= 0 {
		return nil, ErrValidation
	}
	// The name becomes the last segment of the object key, so it must not
	// carry path separators or dot segments.
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, ErrValidation
	}

	ownerID, err := courseOwner(s.db.WithContext(ctx), req.CourseID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	if !AllowedTypes[strings.ToLower(strings.TrimSpace(req.FileType))] {
		return nil, ErrInvalidFileType
	}
	if req.FileSize > s.limits.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	var ticket *UploadTicket
	err = s.admissionTx(ctx, func(tx *gorm.DB) error {
		count, err := countByCourse(tx, req.CourseID)
		if err != nil {
			return err
		}
		if count >= s.limits.MaxFilesPerCourse {
			return ErrFileCountLimitReached
		}

		used, err := sumSizeByUser(tx, userID)
		if err != nil {
			return err
		}
		if used+req.FileSize > s.limits.MaxStoragePerUser {
			return ErrStorageLimitReached
		}

		var dup int64
		if err := tx.Model(&File{}).
			Where("course_id = ? AND name = ?", req.CourseID, name).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateFileName
		}

		path := StoragePathFor(userID, req.CourseID, name)

		// Presigning is a pure signing operation with no remote side effect,
		// so it is safe to repeat if the transaction retries. A mint failure
		// aborts the whole transaction: no row, no reserved quota.
		uploadURL, err := s.store.PresignUpload(ctx, path, s.limits.UploadURLTTL)
		if err != nil {
			log.Printf("upload_admission_mint_failed user_id=%d course_id=%s error=%q", userID, req.CourseID, err)
			return fmt.Errorf("%w: mint upload credential: %v", ErrInternal, err)
		}

		f := &File{
			ID:          uuid.New().String(),
			CourseID:    req.CourseID,
			Name:        name,
			SizeBytes:   req.FileSize,
			MimeType:    strings.ToLower(strings.TrimSpace(req.FileType)),
			StoragePath: path,
			Status:      StatusUploading,
		}
		if err := tx.Create(f).Error; err != nil {
			// The unique index on (course_id, name) backstops the pre-check.
			if isUniqueViolation(err) {
				return ErrDuplicateFileName
			}
			return err
		}

		ticket = &UploadTicket{
			FileID:      f.ID,
			UploadURL:   uploadURL,
			StoragePath: path,
			ExpiresAt:   time.Now().Add(s.limits.UploadURLTTL).UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Confirm moves a file UPLOADING -> PROCESSING exactly once. The transition
// is a conditional UPDATE, so of N concurrent confirms exactly one wins and
// the rest observe ErrInvalidState. The processing job enqueue is
// fire-and-forget: its failure is logged, never rolled back.
func (s *Service) Confirm(ctx context.Context, userID int64, fileID string) (*File, error) {
	f, err := s.getOwned(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&File{}).
		Where("id = ? AND status = ?", fileID, StatusUploading).
		Updates(map[string]any{"status": StatusProcessing, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	f.Status = StatusProcessing

	if err := s.queue.Enqueue(ctx, JobFileProcess, ProcessJob{FileID: f.ID, StoragePath: f.StoragePath}); err != nil {
		log.Printf("file_process_enqueue_failed file_id=%s error=%q", f.ID, err)
	}
	return f, nil
}

// MarkProcessed is called by the processing worker (internal endpoint) and
// owns the terminal edge PROCESSING -> READY | FAILED.
func (s *Service) MarkProcessed(ctx context.Context, fileID string, report StatusReport) (*File, error) {
	target := StatusReady
	if !report.Succeeded {
		target = StatusFailed
		log.Printf("file_processing_failed file_id=%s error=%q", fileID, report.Error)
	}

	res := s.db.WithContext(ctx).Model(&File{}).
		Where("id = ? AND status = ?", fileID, StatusProcessing).
		Updates(map[string]any{"status": target, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var f File
		err := s.db.WithContext(ctx).Where("id = ?", fileID).First(&f).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidState
	}

	var f File
	if err := s.db.WithContext(ctx).Where("id = ?", fileID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Service) Get(ctx context.Context, userID int64, fileID string) (*File, error) {
	return s.getOwned(ctx, userID, fileID)
}

func (s *Service) ListByCourse(ctx context.Context, userID int64, courseID string) ([]*File, error) {
	ownerID, err := courseOwner(s.db.WithContext(ctx), courseID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	var files []*File
	err = s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// Delete removes the row (authoritative, releases quota) and then removes
// the blob best-effort.
func (s *Service) Delete(ctx context.Context, userID int64, fileID string) error {
	f, err := s.getOwned(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", fileID).Delete(&File{}).Error; err != nil {
		return err
	}

	if err := s.store.Remove(ctx, []string{f.StoragePath}); err != nil {
		log.Printf("file_delete_blob_cleanup file_id=%s path=%s error=%q", fileID, f.StoragePath, err)
	}
	return nil
}

// DownloadURL mints a presigned GET for a READY file.
func (s *Service) DownloadURL(ctx context.Context, userID int64, fileID string) (string, error) {
	f, err := s.getOwned(ctx, userID, fileID)
	if err != nil {
		return "", err
	}
	if f.Status != StatusReady {
		return "", ErrInvalidState
	}

	url, err := s.store.PresignDownload(ctx, f.StoragePath, s.limits.UploadURLTTL)
	if err != nil {
		log.Printf("file_download_mint_failed file_id=%s error=%q", fileID, err)
		return "", fmt.Errorf("%w: mint download credential: %v", ErrInternal, err)
	}
	return url, nil
}

// ReapStale deletes UPLOADING reservations whose credential expired before
// cutoff, freeing the quota they held. Blob cleanup is best-effort; an
// abandoned upload may or may not have placed bytes.
func (s *Service) ReapStale(ctx context.Context, cutoff time.Time) (int64, error) {
	type staleRow struct {
		ID          string `gorm:"column:id"`
		StoragePath string `gorm:"column:storage_path"`
	}
	var stale []staleRow
	err := s.db.WithContext(ctx).Model(&File{}).
		Select("id", "storage_path").
		Where("status = ? AND created_at < ?", StatusUploading, cutoff).
		Scan(&stale).Error
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	// Each delete stays conditional on UPLOADING: a confirm racing the
	// reaper wins, and only rows the delete actually removed have their
	// blob cleaned up.
	var reaped int64
	paths := make([]string, 0, len(stale))
	for _, row := range stale {
		res := s.db.WithContext(ctx).
			Where("id = ? AND status = ?", row.ID, StatusUploading).
			Delete(&File{})
		if res.Error != nil {
			return reaped, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		reaped += res.RowsAffected
		paths = append(paths, row.StoragePath)
	}

	if len(paths) > 0 {
		if err := s.store.Remove(ctx, paths); err != nil {
			log.Printf("reap_blob_cleanup objects=%d error=%q", len(paths), err)
		}
	}
	return reaped, nil
}

func (s *Service) getOwned(ctx context.Context, userID int64, fileID string) (*File, error) {
	var f File
	err := s.db.WithContext(ctx).Where("id = ?", fileID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ownerID, err := courseOwner(s.db.WithContext(ctx), f.CourseID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}
	return &f, nil
}

const admissionRetries = 3

// admissionTx runs fn under the strongest isolation the dialect offers and
// retries bounded serialization conflicts. SQLite serializes write
// transactions itself; PostgreSQL needs SERIALIZABLE so two admissions
// cannot both read a stale aggregate and jointly overshoot a limit.
func (s *Service) admissionTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	opts := &sql.TxOptions{}
	if s.db.Dialector.Name() == "postgres" {
		opts.Isolation = sql.LevelSerializable
	}

	var err error
	for attempt := 0; attempt < admissionRetries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn, opts)
		if err == nil || !retryableTxError(err) {
			return err
		}
	}
	return err
}

func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
