package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/models"
)

func seedCourse(t *testing.T, conn *gorm.DB, published bool, lessons int) (student models.User, course models.Course) {
	t.Helper()
	instructor := models.User{Email: "inst@x.com", Role: models.RoleInstructor, IsActive: true}
	if err := conn.Create(&instructor).Error; err != nil {
		t.Fatalf("create instructor: %v", err)
	}
	student = models.User{Email: "stud@x.com", Role: models.RoleStudent, IsActive: true}
	if err := conn.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	course = models.Course{
		Title: "Test Course", Slug: "test-course", IsPublished: published, InstructorID: instructor.ID,
	}
	for i := 1; i <= lessons; i++ {
		course.Lessons = append(course.Lessons, models.Lesson{
			Title: "Lesson", Order: i, IsPublished: true,
		})
	}
	if err := conn.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return student, course
}

func TestEnroll(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, true, 2)

	enrollment, err := svc.Enroll(context.Background(), student.ID, course.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Errorf("expected ACTIVE, got %s", enrollment.Status)
	}
	if enrollment.Progress != 0 {
		t.Errorf("expected 0 progress, got %f", enrollment.Progress)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, true, 1)

	if _, err := svc.Enroll(context.Background(), student.ID, course.ID); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	_, err := svc.Enroll(context.Background(), student.ID, course.ID)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, false, 1)

	_, err := svc.Enroll(context.Background(), student.ID, course.ID)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound for unpublished course, got %v", err)
	}
}

func TestCompleteLessonProgress(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, true, 2)

	if _, err := svc.Enroll(context.Background(), student.ID, course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	first, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, course.Lessons[0].ID)
	if err != nil {
		t.Fatalf("complete first: %v", err)
	}
	if first.Progress != 50 {
		t.Errorf("expected 50%% after one of two lessons, got %f", first.Progress)
	}
	if first.Status != models.EnrollmentActive {
		t.Errorf("expected still ACTIVE, got %s", first.Status)
	}

	second, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, course.Lessons[1].ID)
	if err != nil {
		t.Fatalf("complete second: %v", err)
	}
	if second.Progress != 100 {
		t.Errorf("expected 100%%, got %f", second.Progress)
	}
	if second.Status != models.EnrollmentCompleted {
		t.Errorf("expected COMPLETED, got %s", second.Status)
	}
	if second.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}
}

func TestCompleteLessonIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, true, 2)

	if _, err := svc.Enroll(context.Background(), student.ID, course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, course.Lessons[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	again, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, course.Lessons[0].ID)
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if again.Progress != 50 {
		t.Errorf("repeat completion must not double-count, got %f", again.Progress)
	}
}

func TestCompleteLessonErrors(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewEnrollmentService(conn)
	student, course := seedCourse(t, conn, true, 1)

	// Not enrolled yet.
	if _, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, course.Lessons[0].ID); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}

	if _, err := svc.Enroll(context.Background(), student.ID, course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, 9999); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}
