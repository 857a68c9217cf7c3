package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/gate"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/models"
	"github.com/diewo77/learnhub/internal/obs"
	"github.com/diewo77/learnhub/internal/services"
	"github.com/diewo77/learnhub/internal/validation"
)

// minPasswordLength applies to credential registrations only.
const minPasswordLength = 8

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
	Reg    *services.RegistrationService
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenIssuer, reg *services.RegistrationService) *AuthHandler {
	return &AuthHandler{DB: db, Tokens: tokens, Reg: reg}
}

// userPayload is the user representation returned by auth endpoints.
type userPayload struct {
	ID               uint        `json:"id"`
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	Role             models.Role `json:"role"`
	OrganizationID   *uint       `json:"organizationId,omitempty"`
	ProfileCompleted bool        `json:"profileCompleted"`
	OnboardingStep   int         `json:"onboardingStep"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.FullName(),
		Role:             u.Role,
		OrganizationID:   u.OrganizationID,
		ProfileCompleted: u.ProfileCompleted,
		OnboardingStep:   u.OnboardingStep,
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Role           string `json:"role"`
	OrganizationID *uint  `json:"organizationId"`
	CompanyName    string `json:"companyName"`
}

// Register handles POST /auth/register. JSON from the API client, form
// encoding from the server-rendered sign-up page. Form posts come from a
// browser and end in a redirect to the new account's dashboard; JSON
// clients get the token payload.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	fromForm := isForm(r)
	badOrgID := false
	if fromForm {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		req = registerRequest{
			Email:       r.FormValue("email"),
			Password:    r.FormValue("password"),
			FirstName:   r.FormValue("firstName"),
			LastName:    r.FormValue("lastName"),
			Role:        r.FormValue("role"),
			CompanyName: r.FormValue("companyName"),
		}
		if raw := r.FormValue("organizationId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				badOrgID = true
			} else {
				orgID := uint(id)
				req.OrganizationID = &orgID
			}
		}
	} else if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	v := validation.Violations{}
	if badOrgID {
		v["organizationId"] = "invalid"
	}
	validation.Required("email", req.Email, v)
	if req.Email != "" {
		validation.Email("email", req.Email, v)
	}
	validation.Required("firstName", req.FirstName, v)
	validation.Required("lastName", req.LastName, v)
	validation.MinLength("password", req.Password, minPasswordLength, v)
	role := models.RoleStudent
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			v["role"] = "unknown_role"
		} else {
			role = parsed
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "Validation failed", v)
		return
	}

	user, err := h.Reg.Register(r.Context(), services.RegistrationInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           role,
		OrganizationID: req.OrganizationID,
		CompanyName:    strings.TrimSpace(req.CompanyName),
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			httpx.JSONError(w, http.StatusBadRequest, "User with this email already exists", nil)
			return
		}
		obs.Log("auth.register.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		obs.Log("auth.token.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	auth.CreateSession(w, token, h.Tokens.TTL())
	if fromForm {
		http.Redirect(w, r, gate.Landing(user.Role), http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusCreated, authResponse{Token: token, User: toUserPayload(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. Unknown email and wrong password produce
// the same response; nothing distinguishes the two to the caller. Like
// Register, a form post ends in a redirect to the role's dashboard while a
// JSON client gets the token payload.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	fromForm := isForm(r)
	if fromForm {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		req = loginRequest{Email: r.FormValue("email"), Password: r.FormValue("password")}
	} else if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	user, err := h.Reg.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	case errors.Is(err, auth.ErrInactiveUser):
		httpx.JSONError(w, http.StatusUnauthorized, "Account is deactivated", nil)
		return
	case err != nil:
		obs.Log("auth.login.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		obs.Log("auth.token.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if err := h.Reg.TouchLastLogin(r.Context(), user.ID); err != nil {
		obs.Log("auth.login.touch_error", map[string]any{"error": err.Error()})
	}
	auth.CreateSession(w, token, h.Tokens.TTL())
	if fromForm {
		http.Redirect(w, r, gate.Landing(user.Role), http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusOK, authResponse{Token: token, User: toUserPayload(user)})
}

// Verify handles GET /auth/verify. The route runs behind the API guard, so
// reaching the handler means the token checked out and the user is active;
// the handler re-reads the row to answer with current state.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).First(&user, claims.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "Invalid token", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": toUserPayload(&user)})
}

// Logout clears the session cookie. Tokens themselves stay valid until
// expiry; the cookie is the only thing the server can take back.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
