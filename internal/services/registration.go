package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/models"
)

// RegistrationService creates accounts. All writes for one registration run
// in a single transaction; the duplicate-email check is the insert itself
// (unique index), never a find-then-create.
type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// RegistrationInput is the validated payload for a credential registration.
type RegistrationInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Role           models.Role
	OrganizationID *uint
	CompanyName    string
}

// Register creates the user, hashing the password and auto-creating an
// organization when a COMPANY_ADMIN registers with a company name and no
// existing organization. Credential registrations complete onboarding
// immediately. Returns auth.ErrEmailTaken on a duplicate email.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgID := in.OrganizationID
		if in.Role == models.RoleCompanyAdmin && in.CompanyName != "" && orgID == nil {
			org := models.Organization{Name: in.CompanyName, Slug: models.Slugify(in.CompanyName)}
			if err := tx.Create(&org).Error; err != nil {
				return err
			}
			orgID = &org.ID
		}

		user = models.User{
			Email:            in.Email,
			PasswordHash:     &hash,
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Role:             in.Role,
			OrganizationID:   orgID,
			ProfileCompleted: true,
			OnboardingStep:   5,
			IsActive:         true,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return auth.ErrEmailTaken
			}
			return err
		}

		if in.Role == models.RoleInstructor {
			if err := tx.Create(&models.InstructorProfile{UserID: user.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate resolves a credential login. Unknown email, wrong password
// and federated-only accounts (no hash) all collapse into
// auth.ErrInvalidCredentials; a correct password on a deactivated account
// surfaces auth.ErrInactiveUser.
func (s *RegistrationService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, auth.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, auth.ErrInactiveUser
	}
	return &user, nil
}

// FederatedInput carries the identity asserted by an external provider.
type FederatedInput struct {
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// UpsertFederated resolves a federated sign-in to a user row, creating a
// STUDENT with onboarding incomplete on first sign-in. The returned row is
// always freshly loaded: claims minted for a federated session must reflect
// current state, never a prior session's copy, because the provider carries
// no role or onboarding data.
func (s *RegistrationService) UpsertFederated(ctx context.Context, in FederatedInput) (*models.User, error) {
	tx := s.db.WithContext(ctx)

	create := models.User{
		Email:            in.Email,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Avatar:           in.Avatar,
		Role:             models.RoleStudent,
		ProfileCompleted: false,
		OnboardingStep:   1,
		IsActive:         true,
	}
	if err := tx.Create(&create).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var user models.User
	if err := tx.Where("email = ?", in.Email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin records a successful login. Failure here is not fatal to
// the login itself.
func (s *RegistrationService) TouchLastLogin(ctx context.Context, userID uint) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", &now).Error
}
