package session

import (
	"context"
	"time"

	"github.com/waste-point/web-go/models"
	"gorm.io/gorm"
)

// Store holds the server-side record of each live session.
type Store interface {
	Create(ctx context.Context, id string, userID uint, expiresAt time.Time) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// GormStore keeps sessions in the sessions table.
type GormStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, now: time.Now}
}

func (s *GormStore) Create(ctx context.Context, id string, userID uint, expiresAt time.Time) error {
	db := s.DB.WithContext(ctx)

	// Drop this user's stale sessions while we are here.
	if err := db.Where("user_id = ? AND expires_at <= ?", userID, s.now()).Delete(&models.Session{}).Error; err != nil {
		return err
	}

	return db.Create(&models.Session{ID: id, UserID: userID, ExpiresAt: expiresAt}).Error
}

func (s *GormStore) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND expires_at > ?", id, s.now()).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}
