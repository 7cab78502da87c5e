package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"luma/internal/config"
	"luma/internal/database"
	"luma/internal/domain/file"
	"luma/internal/jobs"
	"luma/internal/storage"
)

// Reaps stale UPLOADING reservations whose upload credential has expired,
// releasing the quota they held. Intended to run from cron.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if cfg.MinIOEndpoint == "" {
		log.Fatal("MINIO_ENDPOINT is required")
	}
	store, err := storage.NewMinioStore(context.Background(), storage.MinioConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	svc := file.NewService(db, store, jobs.LogQueue{}, file.Limits{
		MaxFilesPerCourse: cfg.MaxFilesPerCourse,
		MaxStoragePerUser: cfg.MaxStoragePerUser,
		MaxFileSize:       cfg.MaxFileSize,
		UploadURLTTL:      cfg.UploadURLTTL,
	})

	cutoff := time.Now().Add(-(cfg.UploadURLTTL + cfg.ReapGrace))
	reaped, err := svc.ReapStale(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("reap failed: %v", err)
	}

	log.Printf("upload reaper completed: reaped=%d cutoff=%s", reaped, cutoff.UTC().Format(time.RFC3339))
}
