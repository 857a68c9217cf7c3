package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/models"
	"github.com/diewo77/learnhub/internal/obs"
)

// onboarding runs 0..5; 5 means done.
const onboardingDone = 5

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// Get handles GET /users/profile: the current user with organization and
// enrollments.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	var user models.User
	err := h.DB.WithContext(r.Context()).
		Preload("Organization").
		First(&user, claims.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		obs.Log("profile.get.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	var enrollments []models.Enrollment
	if err := h.DB.WithContext(r.Context()).
		Where("student_id = ?", user.ID).
		Preload("Course").
		Find(&enrollments).Error; err != nil {
		obs.Log("profile.enrollments.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"enrollments": enrollments,
	})
}

type profileUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

// Update handles PUT /users/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	var req profileUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		httpx.JSONError(w, http.StatusBadRequest, "First and last name are required", nil)
		return
	}

	updates := map[string]any{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"avatar":     strings.TrimSpace(req.Avatar),
	}
	if err := h.DB.WithContext(r.Context()).Model(&models.User{}).
		Where("id = ?", claims.UserID).Updates(updates).Error; err != nil {
		obs.Log("profile.update.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	var user models.User
	if err := h.DB.WithContext(r.Context()).First(&user, claims.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserPayload(&user))
}

type onboardingRequest struct {
	Step int `json:"step"`
}

// Onboarding handles PUT /users/onboarding. The step only moves forward;
// reaching the final step marks the profile completed.
func (h *ProfileHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	var req onboardingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.Step < 0 || req.Step > onboardingDone {
		httpx.JSONError(w, http.StatusBadRequest, "Onboarding step out of range", nil)
		return
	}

	var user models.User
	if err := h.DB.WithContext(r.Context()).First(&user, claims.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if req.Step < user.OnboardingStep {
		httpx.JSONError(w, http.StatusBadRequest, "Onboarding cannot move backwards", nil)
		return
	}

	updates := map[string]any{"onboarding_step": req.Step}
	if req.Step == onboardingDone {
		updates["profile_completed"] = true
	}
	if err := h.DB.WithContext(r.Context()).Model(&models.User{}).
		Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		obs.Log("profile.onboarding.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if err := h.DB.WithContext(r.Context()).First(&user, user.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserPayload(&user))
}
