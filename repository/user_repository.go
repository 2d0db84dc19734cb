package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/waste-point/web-go/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the email is unknown so both failure
// paths of Authenticate do one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("waste-point-dummy-password"), bcrypt.DefaultCost)

type UserRepository struct {
	DB   *gorm.DB
	Cost int
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db, Cost: bcrypt.DefaultCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default role.
func (r *UserRepository) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: please fill all fields", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || r.emailTaken(ctx, email) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) emailTaken(ctx context.Context, email string) bool {
	var count int64
	r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike. It never writes.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == "" {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateGoogleUser links a Google account to the user with the same
// email, or creates a password-less user.
func (r *UserRepository) FindOrCreateGoogleUser(ctx context.Context, googleID, email, name string) (*models.User, error) {
	email = NormalizeEmail(email)
	if googleID == "" || email == "" {
		return nil, fmt.Errorf("%w: google account without id or email", ErrValidation)
	}

	var user models.User
	err := r.DB.WithContext(ctx).Where("google_id = ? OR email = ?", googleID, email).First(&user).Error
	if err == nil {
		if user.GoogleID != nil && *user.GoogleID != googleID {
			return nil, ErrDuplicateEmail
		}
		if user.GoogleID == nil {
			user.GoogleID = &googleID
			if err := r.DB.WithContext(ctx).Model(&user).Update("google_id", googleID).Error; err != nil {
				return nil, fmt.Errorf("link google account: %w", err)
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if name = strings.TrimSpace(name); name == "" {
		name = email
	}
	user = models.User{Name: name, Email: email, GoogleID: &googleID, Role: models.RoleUser}
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// PromoteToAdmin grants the admin role to an existing user.
func (r *UserRepository) PromoteToAdmin(ctx context.Context, email string) error {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&user).Update("role", models.RoleAdmin).Error
}
