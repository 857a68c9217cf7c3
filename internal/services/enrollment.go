package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/models"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrNotEnrolled     = errors.New("not enrolled in course")
	ErrAlreadyEnrolled = errors.New("already enrolled in course")
)

// EnrollmentService handles enrollments and per-lesson progress.
type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll enrolls a student in a published course. The composite unique
// index makes double enrollment an atomic conflict, not a race.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	tx := s.db.WithContext(ctx)

	var course models.Course
	if err := tx.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.EnrollmentActive,
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return &enrollment, nil
}

// CompleteLesson records completion of one lesson and recomputes the
// enrollment progress. Completing the same lesson twice is a no-op.
// Reaching 100% marks the enrollment COMPLETED.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, studentID, courseID, lessonID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}

		var lesson models.Lesson
		if err := tx.Where("id = ? AND course_id = ? AND is_published = ?", lessonID, courseID, true).
			First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		progress := models.LessonProgress{
			EnrollmentID: enrollment.ID,
			LessonID:     lesson.ID,
			CompletedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&progress).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		var total, done int64
		if err := tx.Model(&models.Lesson{}).
			Where("course_id = ? AND is_published = ?", courseID, true).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.LessonProgress{}).
			Where("enrollment_id = ?", enrollment.ID).Count(&done).Error; err != nil {
			return err
		}

		if total > 0 {
			enrollment.Progress = float64(done) / float64(total) * 100
		}
		if total > 0 && done >= total {
			enrollment.Status = models.EnrollmentCompleted
			now := time.Now().UTC()
			enrollment.CompletedAt = &now
		}
		return tx.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
			Updates(map[string]any{
				"progress":     enrollment.Progress,
				"status":       enrollment.Status,
				"completed_at": enrollment.CompletedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}
