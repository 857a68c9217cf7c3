package server

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/config"
	"github.com/diewo77/learnhub/internal/gate"
	"github.com/diewo77/learnhub/internal/guard"
	"github.com/diewo77/learnhub/internal/handlers"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/models"
	"github.com/diewo77/learnhub/internal/obs"
	"github.com/diewo77/learnhub/internal/services"
)

// New constructs the root http.Handler with all routes and middleware.
// Fails when the auth secret is missing: that is a configuration error and
// must abort bootstrap, not surface at request time.
func New(db *gorm.DB, cfg config.Config) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	// The guard confirms on every authenticated request that the token's
	// subject still exists and is active; stateless tokens have no other
	// revocation path.
	g := guard.New(tokens, func(ctx context.Context, userID uint) (*models.User, error) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &user, nil
	})

	reg := services.NewRegistrationService(db)
	enrollments := services.NewEnrollmentService(db)
	ah := handlers.NewAuthHandler(db, tokens, reg)
	gh := handlers.NewGoogleHandler(cfg, reg, tokens)
	ch := handlers.NewCourseHandler(db, enrollments)
	ph := handlers.NewProfileHandler(db)
	pages := handlers.NewPageHandler()

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", obs.Handler())

	// ─────────────────────────────────────────────────────────────────────
	// Auth API (public)
	// ─────────────────────────────────────────────────────────────────────
	mux.HandleFunc("POST /auth/register", ah.Register)
	mux.HandleFunc("POST /auth/login", ah.Login)
	mux.HandleFunc("POST /auth/logout", ah.Logout)
	mux.Handle("GET /auth/verify", g.API(gate.RequireAuth())(http.HandlerFunc(ah.Verify)))
	mux.HandleFunc("GET /auth/google", gh.Start)
	mux.HandleFunc("GET /auth/google/callback", gh.Callback)

	// ─────────────────────────────────────────────────────────────────────
	// Course API
	// ─────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /courses", ch.List)
	mux.HandleFunc("GET /courses/{slug}", ch.Detail)
	mux.Handle("POST /courses/{id}/enroll",
		g.API(gate.RequireRoles(models.RoleStudent))(http.HandlerFunc(ch.Enroll)))
	mux.Handle("POST /courses/{id}/lessons/{lessonID}/complete",
		g.API(gate.RequireRoles(models.RoleStudent))(http.HandlerFunc(ch.CompleteLesson)))

	// ─────────────────────────────────────────────────────────────────────
	// Profile API
	// ─────────────────────────────────────────────────────────────────────
	mux.Handle("GET /users/profile", g.API(gate.RequireAuth())(http.HandlerFunc(ph.Get)))
	mux.Handle("PUT /users/profile", g.API(gate.RequireAuth())(http.HandlerFunc(ph.Update)))
	mux.Handle("PUT /users/onboarding", g.API(gate.RequireAuth())(http.HandlerFunc(ph.Onboarding)))

	// ─────────────────────────────────────────────────────────────────────
	// Pages. Auth pages bounce signed-in users to their role landing;
	// dashboards apply the same gate as the API, answering with redirects.
	// ─────────────────────────────────────────────────────────────────────
	mux.Handle("GET /auth/signin", g.RedirectAuthenticated(http.HandlerFunc(pages.SignIn)))
	mux.Handle("GET /auth/signup", g.RedirectAuthenticated(http.HandlerFunc(pages.SignUp)))
	mux.Handle("GET /dashboard", g.Page(gate.RequireAuth())(pages.Dashboard()))
	mux.Handle("GET /dashboard/student",
		g.Page(gate.RequireRoles(models.RoleStudent))(pages.Student()))
	mux.Handle("GET /dashboard/instructor",
		g.Page(gate.RequireRoles(models.RoleInstructor))(pages.Instructor()))
	mux.Handle("GET /dashboard/company",
		g.Page(gate.RequireRoles(models.RoleCompanyAdmin))(pages.Company()))

	// Session resolution runs once per request. Instrumentation sits
	// between the guard and the mux so it sees the matched route pattern.
	return g.Middleware(obs.Instrument(mux)), nil
}
