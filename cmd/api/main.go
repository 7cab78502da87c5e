package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"luma/internal/config"
	"luma/internal/database"
	"luma/internal/domain/auth"
	"luma/internal/domain/course"
	"luma/internal/domain/file"
	"luma/internal/jobs"
	"luma/internal/middleware"
	jwtsvc "luma/internal/pkg/jwt"
	"luma/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&auth.User{}, &course.Course{}, &file.File{}); err != nil {
		log.Fatalf("migrate failed: %v", err)
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

	var queue jobs.Queue = jobs.LogQueue{}
	if len(cfg.KafkaBrokers) > 0 {
		kq := jobs.NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kq.Close()
		queue = kq
	} else {
		log.Println("KAFKA_BROKERS not set, processing jobs will only be logged")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(auth.NewRepository(db), j)
	authHandler := auth.NewHandler(authService)

	courseService := course.NewService(course.NewRepository(db), store, cfg.MaxCoursesPerUser)
	courseHandler := course.NewHandler(courseService)

	fileService := file.NewService(db, store, queue, file.Limits{
		MaxFilesPerCourse: cfg.MaxFilesPerCourse,
		MaxStoragePerUser: cfg.MaxStoragePerUser,
		MaxFileSize:       cfg.MaxFileSize,
		UploadURLTTL:      cfg.UploadURLTTL,
	})
	fileHandler := file.NewHandler(fileService)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, authHandler)

		protected := v1.Group("")
		protected.Use(middleware.Auth(j))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			course.RegisterRoutes(protected, courseHandler)
			file.RegisterRoutes(protected, fileHandler)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
		{
			file.RegisterInternalRoutes(internal, fileHandler)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
