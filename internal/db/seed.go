package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/models"
)

// Seed inserts a demo instructor and a small course catalog when the
// database is empty. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("instructor1")
	if err != nil {
		return err
	}
	instructor := models.User{
		Email:            "instructor@learnhub.dev",
		PasswordHash:     &hash,
		FirstName:        "Demo",
		LastName:         "Instructor",
		Role:             models.RoleInstructor,
		ProfileCompleted: true,
		OnboardingStep:   5,
		IsActive:         true,
	}
	if err := db.Where("email = ?", instructor.Email).FirstOrCreate(&instructor).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", instructor.ID).
		FirstOrCreate(&models.InstructorProfile{UserID: instructor.ID, Title: "Demo Instructor"}).Error; err != nil {
		return err
	}

	courses := []models.Course{
		{
			Title:        "Go for Backend Developers",
			Slug:         "go-for-backend-developers",
			Description:  "HTTP services, databases and testing in Go.",
			Level:        models.LevelIntermediate,
			IsPublished:  true,
			InstructorID: instructor.ID,
			Lessons: []models.Lesson{
				{Title: "Setting up", Order: 1, Duration: 12, IsPublished: true},
				{Title: "HTTP handlers", Order: 2, Duration: 25, IsPublished: true},
				{Title: "Talking to the database", Order: 3, Duration: 31, IsPublished: true},
			},
		},
		{
			Title:        "SQL Fundamentals",
			Slug:         "sql-fundamentals",
			Description:  "Schema design, joins and indexes from scratch.",
			Level:        models.LevelBeginner,
			IsPublished:  true,
			InstructorID: instructor.ID,
			Lessons: []models.Lesson{
				{Title: "Tables and rows", Order: 1, Duration: 18, IsPublished: true},
				{Title: "Joins", Order: 2, Duration: 22, IsPublished: true},
			},
		},
	}
	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}
