package gate

import "github.com/diewo77/learnhub/internal/models"

// Dashboard paths used as post-login landings and denial redirect targets.
const (
	SignInPath          = "/auth/signin"
	DashboardPath       = "/dashboard"
	StudentDashboard    = "/dashboard/student"
	InstructorDashboard = "/dashboard/instructor"
	CompanyDashboard    = "/dashboard/company"
)

// Landing maps a role to its default dashboard. Roles without a dedicated
// dashboard land on the generic one.
func Landing(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return StudentDashboard
	case models.RoleInstructor:
		return InstructorDashboard
	case models.RoleCompanyAdmin:
		return CompanyDashboard
	default:
		return DashboardPath
	}
}
