package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/models"
	"github.com/diewo77/learnhub/internal/obs"
	"github.com/diewo77/learnhub/internal/services"
)

type CourseHandler struct {
	DB          *gorm.DB
	Enrollments *services.EnrollmentService
}

func NewCourseHandler(db *gorm.DB, enrollments *services.EnrollmentService) *CourseHandler {
	return &CourseHandler{DB: db, Enrollments: enrollments}
}

// List handles GET /courses: all published courses with instructor summary.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	var courses []models.Course
	err := h.DB.WithContext(r.Context()).
		Where("is_published = ?", true).
		Preload("Instructor").
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		obs.Log("courses.list.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to fetch courses", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, courses)
}

// Detail handles GET /courses/{slug}: one course with its ordered published
// lessons.
func (h *CourseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	var course models.Course
	err := h.DB.WithContext(r.Context()).
		Where("slug = ?", slug).
		Preload("Instructor").
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_published = ?", true).Order(`"order" ASC`)
		}).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Course not found", nil)
			return
		}
		obs.Log("courses.detail.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to fetch course", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, course)
}

// Enroll handles POST /courses/{id}/enroll. Guarded: student role required.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	courseID, ok := parseUintPath(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid course id", nil)
		return
	}

	enrollment, err := h.Enrollments.Enroll(r.Context(), claims.UserID, courseID)
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Course not found", nil)
	case errors.Is(err, services.ErrAlreadyEnrolled):
		httpx.JSONError(w, http.StatusConflict, "Already enrolled in course", nil)
	case err != nil:
		obs.Log("courses.enroll.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to enroll in course", nil)
	default:
		httpx.JSON(w, http.StatusCreated, enrollment)
	}
}

// CompleteLesson handles POST /courses/{id}/lessons/{lessonID}/complete.
func (h *CourseHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	courseID, ok := parseUintPath(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid course id", nil)
		return
	}
	lessonID, ok := parseUintPath(r, "lessonID")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid lesson id", nil)
		return
	}

	enrollment, err := h.Enrollments.CompleteLesson(r.Context(), claims.UserID, courseID, lessonID)
	switch {
	case errors.Is(err, services.ErrNotEnrolled):
		httpx.JSONError(w, http.StatusBadRequest, "Not enrolled in course", nil)
	case errors.Is(err, services.ErrLessonNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Lesson not found", nil)
	case err != nil:
		obs.Log("courses.progress.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to record progress", nil)
	default:
		httpx.JSON(w, http.StatusOK, enrollment)
	}
}

func parseUintPath(r *http.Request, key string) (uint, bool) {
	raw := r.PathValue(key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
