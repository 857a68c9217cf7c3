package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/gate"
	"github.com/diewo77/learnhub/internal/models"
)

func testGuard(t *testing.T, users map[uint]*models.User) (*Guard, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	g := New(tokens, func(_ context.Context, userID uint) (*models.User, error) {
		return users[userID], nil
	})
	return g, tokens
}

func activeStudent() *models.User {
	return &models.User{ID: 1, Email: "s@x.com", Role: models.RoleStudent, IsActive: true}
}

// echoClaims answers 200 with the resolved email, or 204 when anonymous.
func echoClaims() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(claims.Email))
	})
}

func TestMiddlewareResolvesBearerToken(t *testing.T) {
	user := activeStudent()
	g, tokens := testGuard(t, map[uint]*models.User{1: user})
	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	g.Middleware(echoClaims()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "s@x.com" {
		t.Fatalf("expected resolved claims, got code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareResolvesSessionCookie(t *testing.T) {
	user := activeStudent()
	g, tokens := testGuard(t, map[uint]*models.User{1: user})
	token, _ := tokens.Issue(user)

	sessW := httptest.NewRecorder()
	auth.CreateSession(sessW, token, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	req.AddCookie(sessW.Result().Cookies()[0])
	g.Middleware(echoClaims()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "s@x.com" {
		t.Fatalf("expected resolved claims, got code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareAnonymousOnBadToken(t *testing.T) {
	g, _ := testGuard(t, map[uint]*models.User{1: activeStudent()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	g.Middleware(echoClaims()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("bad token should resolve to anonymous, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsInactiveUser(t *testing.T) {
	user := activeStudent()
	g, tokens := testGuard(t, map[uint]*models.User{}) // user gone from store
	token, _ := tokens.Issue(user)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	g.Middleware(echoClaims()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("deleted user should resolve to anonymous, got %d", rec.Code)
	}

	inactive := activeStudent()
	inactive.IsActive = false
	g2, tokens2 := testGuard(t, map[uint]*models.User{1: inactive})
	token2, _ := tokens2.Issue(inactive)

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/anything", nil)
	req2.Header.Set("Authorization", "Bearer "+token2)
	g2.Middleware(echoClaims()).ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusNoContent {
		t.Fatalf("inactive user should resolve to anonymous, got %d", rec2.Code)
	}
}

func serve(g *Guard, wrapped http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	g.Middleware(wrapped).ServeHTTP(rec, req)
	return rec
}

func TestAPIGuardStatuses(t *testing.T) {
	user := activeStudent()
	g, tokens := testGuard(t, map[uint]*models.User{1: user})
	token, _ := tokens.Issue(user)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	// Anonymous on protected endpoint: 401.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if rec := serve(g, g.API(gate.RequireAuth())(ok), req); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}

	// Wrong role: 403, not 401.
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rec := serve(g, g.API(gate.RequireRoles(models.RoleCompanyAdmin))(ok), req); rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: expected 403, got %d", rec.Code)
	}

	// Matching role: pass.
	req = httptest.NewRequest(http.MethodGet, "/student-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rec := serve(g, g.API(gate.RequireRoles(models.RoleStudent))(ok), req); rec.Code != http.StatusOK {
		t.Errorf("matching role: expected 200, got %d", rec.Code)
	}
}

func TestPageGuardRedirects(t *testing.T) {
	user := activeStudent()
	g, tokens := testGuard(t, map[uint]*models.User{1: user})
	token, _ := tokens.Issue(user)

	page := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	// Anonymous on a protected page goes to sign-in.
	req := httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	rec := serve(g, g.Page(gate.RequireRoles(models.RoleStudent))(page), req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != gate.SignInPath {
		t.Errorf("anonymous: expected redirect to %s, got %d %s", gate.SignInPath, rec.Code, rec.Header().Get("Location"))
	}

	// Authenticated with the wrong role goes to the generic dashboard,
	// never back to sign-in.
	req = httptest.NewRequest(http.MethodGet, "/dashboard/company", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(g, g.Page(gate.RequireRoles(models.RoleCompanyAdmin))(page), req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != gate.DashboardPath {
		t.Errorf("forbidden: expected redirect to %s, got %d %s", gate.DashboardPath, rec.Code, rec.Header().Get("Location"))
	}

	// Matching role renders.
	req = httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(g, g.Page(gate.RequireRoles(models.RoleStudent))(page), req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed: expected 200, got %d", rec.Code)
	}
}

func TestRedirectAuthenticated(t *testing.T) {
	cases := []struct {
		role models.Role
		want string
	}{
		{models.RoleStudent, gate.StudentDashboard},
		{models.RoleInstructor, gate.InstructorDashboard},
		{models.RoleCompanyAdmin, gate.CompanyDashboard},
	}
	for _, tc := range cases {
		user := &models.User{ID: 1, Email: "u@x.com", Role: tc.role, IsActive: true}
		g, tokens := testGuard(t, map[uint]*models.User{1: user})
		token, _ := tokens.Issue(user)

		page := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/auth/signin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := serve(g, g.RedirectAuthenticated(page), req)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != tc.want {
			t.Errorf("%s: expected redirect to %s, got %d %s", tc.role, tc.want, rec.Code, rec.Header().Get("Location"))
		}
	}

	// Anonymous users see the auth page.
	g, _ := testGuard(t, nil)
	page := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec := serve(g, g.RedirectAuthenticated(page), httptest.NewRequest(http.MethodGet, "/auth/signin", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous on auth page: expected 200, got %d", rec.Code)
	}
}
