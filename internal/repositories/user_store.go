package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost matches the cost the product has always used for stored hashes.
const bcryptCost = 12

const minPasswordLength = 6

// UserStore owns user records and everything touching password hashes. No
// other package reads or writes the password column.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
// Email and password are deliberately absent, they have their own paths.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	ProfileImage  *string
	Theme         *string
	Language      *string
	Notifications *bool
}

// Create hashes the password and persists a new user. Returns
// models.ErrDuplicateEmail if the email is already registered.
func (s *UserStore) Create(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, models.ErrDuplicateEmail
	case errors.Is(err, gorm.ErrRecordNotFound):
		// new user, continue
	default:
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Password:      string(hashed),
		ProfileImage:  "/user.png",
		Theme:         "light",
		Language:      "en",
		Notifications: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Two concurrent signups can both pass the lookup above; the unique
		// index on email is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return nil, models.ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyPassword reports whether the candidate matches the stored hash.
func (s *UserStore) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// UpdateProfile applies only the provided fields and returns the fresh user.
func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.ProfileImage != nil {
		fields["profile_image"] = *update.ProfileImage
	}
	if update.Theme != nil {
		fields["theme"] = *update.Theme
	}
	if update.Language != nil {
		fields["language"] = *update.Language
	}
	if update.Notifications != nil {
		fields["notifications"] = *update.Notifications
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// ChangePassword verifies the current password, enforces the length policy
// and persists a fresh hash. This is the only way to overwrite a password.
func (s *UserStore) ChangePassword(ctx context.Context, id uuid.UUID, current, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return models.ErrPasswordTooShort
	}

	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, current) {
		return models.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hashed)).Error
}
