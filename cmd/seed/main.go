package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"luma/internal/database"
	"luma/internal/domain/auth"
	"luma/internal/domain/course"
	"luma/internal/domain/file"

	"github.com/google/uuid"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "luma.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&auth.User{}, &course.Course{}, &file.File{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM files")
	db.Exec("DELETE FROM courses")
	db.Exec("DELETE FROM users")

	log.Println("Creating demo user...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	user := auth.User{
		Email:        "demo@luma.app",
		PasswordHash: string(hash),
		Name:         "Demo Student",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("create user failed:", err)
	}

	demoCourse := course.Course{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Name:   "Operating Systems",
	}
	if err := db.Create(&demoCourse).Error; err != nil {
		log.Fatal("create course failed:", err)
	}

	log.Printf("Seed complete: user=%s password=demo1234 course=%q", user.Email, demoCourse.Name)
}
