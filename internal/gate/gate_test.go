package gate

import (
	"testing"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/models"
)

func claimsWithRole(role models.Role) *auth.SessionClaims {
	return &auth.SessionClaims{UserID: 1, Email: "a@x.com", Role: role}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name   string
		claims *auth.SessionClaims
		req    Requirement
		want   error
	}{
		{"anonymous public route", nil, Requirement{}, nil},
		{"anonymous protected route", nil, RequireAuth(), ErrUnauthenticated},
		{"anonymous role route", nil, RequireRoles(models.RoleStudent), ErrUnauthenticated},
		{"authenticated any-role route", claimsWithRole(models.RoleStudent), RequireAuth(), nil},
		{"matching role", claimsWithRole(models.RoleStudent), RequireRoles(models.RoleStudent), nil},
		{"one of several roles", claimsWithRole(models.RoleInstructor),
			RequireRoles(models.RoleInstructor, models.RoleCompanyAdmin), nil},
		{"wrong role", claimsWithRole(models.RoleStudent), RequireRoles(models.RoleCompanyAdmin), ErrForbidden},
		// No hierarchy: SUPER_ADMIN does not satisfy a STUDENT-only gate.
		{"super admin not implicit", claimsWithRole(models.RoleSuperAdmin), RequireRoles(models.RoleStudent), ErrForbidden},
		{"unknown role fails closed", claimsWithRole(models.Role("HACKER")), RequireRoles(models.RoleStudent), ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Check(tc.claims, tc.req); got != tc.want {
				t.Errorf("Check() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckIdempotent(t *testing.T) {
	claims := claimsWithRole(models.RoleStudent)
	req := RequireRoles(models.RoleCompanyAdmin)
	first := Check(claims, req)
	second := Check(claims, req)
	if first != second {
		t.Errorf("identical inputs gave different decisions: %v vs %v", first, second)
	}
}

func TestLanding(t *testing.T) {
	cases := map[models.Role]string{
		models.RoleStudent:      StudentDashboard,
		models.RoleInstructor:   InstructorDashboard,
		models.RoleCompanyAdmin: CompanyDashboard,
		models.RoleSuperAdmin:   DashboardPath,
		models.Role("UNKNOWN"):  DashboardPath,
	}
	for role, want := range cases {
		if got := Landing(role); got != want {
			t.Errorf("Landing(%s) = %s, want %s", role, got, want)
		}
	}
}
