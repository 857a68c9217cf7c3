package models

import "time"

// EnrollmentStatus tracks the lifecycle of a student's enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
)

// Enrollment links a student to a course. A student enrolls at most once per
// course, enforced by the composite unique index.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"enrolledAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	StudentID uint    `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"studentId"`
	CourseID  uint    `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"courseId"`
	Course    *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	Status EnrollmentStatus `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	// Progress is the percentage of published lessons completed, 0-100.
	Progress    float64    `gorm:"default:0" json:"progress"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// LessonProgress records the completion of one lesson within an enrollment.
type LessonProgress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EnrollmentID uint      `gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson" json:"enrollmentId"`
	LessonID     uint      `gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson" json:"lessonId"`
	CompletedAt  time.Time `json:"completedAt"`
}
