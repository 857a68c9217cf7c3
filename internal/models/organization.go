package models

import (
	"strings"
	"time"
)

// Organization groups company-admin accounts and the students they manage.
// One is created implicitly when a COMPANY_ADMIN registers with a company
// name and no existing organization id.
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:255;not null" json:"slug"`

	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}

// Slugify derives the organization slug from its name: lower-cased, runs of
// whitespace collapsed to a single hyphen.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
