// Package service contains the application's business logic between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"strings"

	"petition/internal/models"
	"petition/internal/observability"
	"petition/internal/repository"
	"petition/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, login, profile editing and account
// deletion.
type AccountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewAccountService returns a new AccountService.
func NewAccountService(users repository.UserRepository, profiles repository.ProfileRepository) *AccountService {
	return &AccountService{users: users, profiles: profiles}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	First    string
	Last     string
	Email    string
	Password string
}

// Register validates the input, hashes the password and creates the user.
// A duplicate email surfaces as a constraint violation.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName("First name", in.First); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("Last name", in.Last); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		First:    strings.TrimSpace(in.First),
		Last:     strings.TrimSpace(in.Last),
		Email:    strings.TrimSpace(in.Email),
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.UsersRegistered.Inc()
	return user, nil
}

// LoginResult is the authenticated identity plus the signature id detected
// in the same round trip, when one exists.
type LoginResult struct {
	UserID      uint
	First       string
	Last        string
	SignatureID uint
}

// Login looks the user up by email (left-joined with the signature table)
// and verifies the password hash.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	row, err := s.users.GetCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if row == nil {
		observability.LoginFailures.WithLabelValues("unknown_email").Inc()
		return nil, models.NewNotFoundError("User", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)); err != nil {
		observability.LoginFailures.WithLabelValues("bad_password").Inc()
		return nil, models.NewInvalidCredentialsError()
	}

	result := &LoginResult{
		UserID: row.ID,
		First:  row.First,
		Last:   row.Last,
	}
	if row.SignatureID != nil {
		result.SignatureID = *row.SignatureID
	}
	return result, nil
}

// ProfileInput carries the profile creation form fields. AgeRaw is the raw
// form value: the empty string means the age column is omitted.
type ProfileInput struct {
	UserID uint
	AgeRaw string
	City   string
	URL    string
}

// CreateProfile inserts a profile for the user. The city is normalized to
// lower case before storage.
func (s *AccountService) CreateProfile(ctx context.Context, in ProfileInput) error {
	age, supplied, err := validation.ParseAge(in.AgeRaw)
	if err != nil {
		return models.NewValidationError(err.Error())
	}

	profile := &models.Profile{
		UserID: in.UserID,
		City:   strings.ToLower(strings.TrimSpace(in.City)),
		URL:    strings.TrimSpace(in.URL),
	}
	if supplied {
		profile.Age = &age
	}
	return s.profiles.Create(ctx, profile, supplied)
}

// GetAccount reads the user joined with their profile for the edit form.
// Profile is nil when the user never created one.
func (s *AccountService) GetAccount(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetWithProfile(ctx, userID)
}

// UpdateAccountInput carries the profile edit form fields. Password empty
// means "keep the current password". AgeRaw empty means the stored age is
// left untouched by the upsert.
type UpdateAccountInput struct {
	UserID   uint
	First    string
	Last     string
	Email    string
	Password string
	AgeRaw   string
	City     string
	URL      string
}

// UpdateAccount updates the user row (re-hashing the password when a new
// one is supplied) and upserts the profile keyed on user_id.
func (s *AccountService) UpdateAccount(ctx context.Context, in UpdateAccountInput) error {
	if err := validation.ValidateName("First name", in.First); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("Last name", in.Last); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return models.NewValidationError(err.Error())
	}

	age, supplied, err := validation.ParseAge(in.AgeRaw)
	if err != nil {
		return models.NewValidationError(err.Error())
	}

	user := &models.User{
		ID:    in.UserID,
		First: strings.TrimSpace(in.First),
		Last:  strings.TrimSpace(in.Last),
		Email: strings.TrimSpace(in.Email),
	}

	if in.Password != "" {
		if err := validation.ValidatePassword(in.Password); err != nil {
			return models.NewValidationError(err.Error())
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return models.NewInternalError(hashErr)
		}
		user.Password = string(hashed)
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
	} else {
		if err := s.users.UpdateWithoutPassword(ctx, user); err != nil {
			return err
		}
	}

	profile := &models.Profile{
		UserID: in.UserID,
		City:   strings.TrimSpace(in.City),
		URL:    strings.TrimSpace(in.URL),
	}
	if supplied {
		profile.Age = &age
	}
	return s.profiles.Upsert(ctx, profile, supplied)
}

// DeleteAccount removes the user row; profile and signature go with it via
// the schema-level cascades.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	observability.AccountsDeleted.Inc()
	return nil
}
