package service

import (
	"context"
	"errors"
	"testing"

	"petition/internal/models"
	"petition/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetWithProfile(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetCredentialsByEmail(ctx context.Context, email string) (*repository.CredentialRow, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CredentialRow), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateWithoutPassword(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile, includeAge bool) error {
	args := m.Called(ctx, profile, includeAge)
	return args.Error(0)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile, includeAge bool) error {
	args := m.Called(ctx, profile, includeAge)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     RegisterInput
		mockSetup func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:  "Success",
			input: RegisterInput{First: "Ada", Last: "Lovelace", Email: "ada@example.com", Password: "password123"},
			mockSetup: func(users *MockUserRepository) {
				users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Email == "ada@example.com" && u.Password != "password123"
				})).Return(nil)
			},
		},
		{
			name:    "Missing First Name",
			input:   RegisterInput{Last: "Lovelace", Email: "ada@example.com", Password: "password123"},
			wantErr: models.ErrValidation,
		},
		{
			name:    "Bad Email",
			input:   RegisterInput{First: "Ada", Last: "Lovelace", Email: "not-an-email", Password: "password123"},
			wantErr: models.ErrValidation,
		},
		{
			name:    "Short Password",
			input:   RegisterInput{First: "Ada", Last: "Lovelace", Email: "ada@example.com", Password: "short"},
			wantErr: models.ErrValidation,
		},
		{
			name:  "Duplicate Email",
			input: RegisterInput{First: "Ada", Last: "Lovelace", Email: "taken@example.com", Password: "password123"},
			mockSetup: func(users *MockUserRepository) {
				users.On("Create", mock.Anything, mock.Anything).
					Return(models.NewConstraintError("A user with that email already exists", errors.New("23505")))
			},
			wantErr: models.ErrConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(users)
			}
			svc := NewAccountService(users, new(MockProfileRepository))

			user, err := svc.Register(ctx, tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				// The stored password is the bcrypt hash, never the plaintext.
				assert.NoError(t, bcrypt.CompareHashAndPassword(
					[]byte(user.Password), []byte(tt.input.Password)))
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	sigID := uint(7)

	tests := []struct {
		name      string
		email     string
		password  string
		mockSetup func(*MockUserRepository)
		wantErr   error
		wantSigID uint
	}{
		{
			name:     "Success Without Signature",
			email:    "ada@example.com",
			password: "password123",
			mockSetup: func(users *MockUserRepository) {
				users.On("GetCredentialsByEmail", mock.Anything, "ada@example.com").
					Return(&repository.CredentialRow{
						ID: 1, First: "Ada", Last: "Lovelace",
						Password: hashPassword(t, "password123"),
					}, nil)
			},
		},
		{
			name:     "Success With Signature",
			email:    "ada@example.com",
			password: "password123",
			mockSetup: func(users *MockUserRepository) {
				users.On("GetCredentialsByEmail", mock.Anything, "ada@example.com").
					Return(&repository.CredentialRow{
						ID: 1, First: "Ada", Last: "Lovelace",
						Password:    hashPassword(t, "password123"),
						SignatureID: &sigID,
					}, nil)
			},
			wantSigID: 7,
		},
		{
			name:     "Unknown Email",
			email:    "nobody@example.com",
			password: "password123",
			mockSetup: func(users *MockUserRepository) {
				users.On("GetCredentialsByEmail", mock.Anything, "nobody@example.com").
					Return(nil, nil)
			},
			wantErr: models.ErrNotFound,
		},
		{
			name:     "Wrong Password",
			email:    "ada@example.com",
			password: "wrong-password",
			mockSetup: func(users *MockUserRepository) {
				users.On("GetCredentialsByEmail", mock.Anything, "ada@example.com").
					Return(&repository.CredentialRow{
						ID: 1, Password: hashPassword(t, "password123"),
					}, nil)
			},
			wantErr: models.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.mockSetup(users)
			svc := NewAccountService(users, new(MockProfileRepository))

			result, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(1), result.UserID)
				assert.Equal(t, tt.wantSigID, result.SignatureID)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAccountService_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("City Lowercased And Age Included", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.City == "berlin" && p.Age != nil && *p.Age == 33
		}), true).Return(nil)
		svc := NewAccountService(new(MockUserRepository), profiles)

		err := svc.CreateProfile(ctx, ProfileInput{
			UserID: 1, AgeRaw: "33", City: "Berlin", URL: "https://example.com",
		})
		assert.NoError(t, err)
		profiles.AssertExpectations(t)
	})

	t.Run("Blank Age Omitted", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.Age == nil
		}), false).Return(nil)
		svc := NewAccountService(new(MockUserRepository), profiles)

		err := svc.CreateProfile(ctx, ProfileInput{UserID: 1, AgeRaw: "", City: "Berlin"})
		assert.NoError(t, err)
		profiles.AssertExpectations(t)
	})

	t.Run("Invalid Age", func(t *testing.T) {
		svc := NewAccountService(new(MockUserRepository), new(MockProfileRepository))

		err := svc.CreateProfile(ctx, ProfileInput{UserID: 1, AgeRaw: "abc"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Without Password Keeps Hash", func(t *testing.T) {
		users := new(MockUserRepository)
		profiles := new(MockProfileRepository)
		users.On("UpdateWithoutPassword", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.ID == 1 && u.Password == ""
		})).Return(nil)
		profiles.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)
		svc := NewAccountService(users, profiles)

		err := svc.UpdateAccount(ctx, UpdateAccountInput{
			UserID: 1, First: "Ada", Last: "Byron", Email: "ada@example.com",
		})
		assert.NoError(t, err)
		users.AssertExpectations(t)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		profiles.AssertExpectations(t)
	})

	t.Run("With Password Rehashes", func(t *testing.T) {
		users := new(MockUserRepository)
		profiles := new(MockProfileRepository)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Password != "" && u.Password != "new-password-123"
		})).Return(nil)
		profiles.On("Upsert", mock.Anything, mock.Anything, true).Return(nil)
		svc := NewAccountService(users, profiles)

		err := svc.UpdateAccount(ctx, UpdateAccountInput{
			UserID: 1, First: "Ada", Last: "Byron", Email: "ada@example.com",
			Password: "new-password-123", AgeRaw: "40", City: "Berlin",
		})
		assert.NoError(t, err)
		users.AssertExpectations(t)
		profiles.AssertExpectations(t)
	})

	t.Run("Invalid Email Rejected Before Any Write", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAccountService(users, new(MockProfileRepository))

		err := svc.UpdateAccount(ctx, UpdateAccountInput{
			UserID: 1, First: "Ada", Last: "Byron", Email: "broken",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
		users.AssertNotCalled(t, "UpdateWithoutPassword", mock.Anything, mock.Anything)
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Delete", mock.Anything, uint(1)).Return(nil)
	svc := NewAccountService(users, new(MockProfileRepository))

	assert.NoError(t, svc.DeleteAccount(context.Background(), 1))
	users.AssertExpectations(t)
}
