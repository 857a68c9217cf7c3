package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Role checks must match
// exhaustively; an unknown value never satisfies a gate.
type Role string

const (
	RoleStudent      Role = "STUDENT"
	RoleInstructor   Role = "INSTRUCTOR"
	RoleCompanyAdmin Role = "COMPANY_ADMIN"
	RoleSuperAdmin   Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleCompanyAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole validates a client-supplied role string. Only roles that may be
// self-assigned at registration are accepted; SUPER_ADMIN is assigned
// out-of-band.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleInstructor, RoleCompanyAdmin:
		return Role(s), true
	}
	return "", false
}

// User represents an account on the platform. PasswordHash is nil for
// accounts created through a federated provider; those accounts cannot log
// in with credentials.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	FirstName    string  `gorm:"size:100" json:"firstName"`
	LastName     string  `gorm:"size:100" json:"lastName"`
	Avatar       string  `gorm:"size:500" json:"avatar,omitempty"`
	Role         Role    `gorm:"size:20;not null;default:STUDENT" json:"role"`

	OrganizationID *uint         `gorm:"index" json:"organizationId,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`

	// Onboarding runs from 0 (just created) to 5 (fully onboarded).
	ProfileCompleted bool `gorm:"default:false" json:"profileCompleted"`
	OnboardingStep   int  `gorm:"default:0" json:"onboardingStep"`

	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// InstructorProfile holds instructor-specific fields, created alongside the
// user when the account registers with the INSTRUCTOR role.
type InstructorProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Title  string `gorm:"size:255" json:"title,omitempty"`
	Bio    string `gorm:"size:2000" json:"bio,omitempty"`
}
