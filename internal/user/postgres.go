package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PostgresRepository stores users through GORM.
type PostgresRepository struct {
	DB *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u User) (*User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	var u User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.DisplayName != nil {
		updates["display_name"] = *in.DisplayName
	}
	if in.PhotoURL != nil {
		if *in.PhotoURL == "" {
			updates["photo_url"] = nil
		} else {
			updates["photo_url"] = *in.PhotoURL
		}
	}
	if in.NotificationSettings != nil {
		updates["notification_settings"] = *in.NotificationSettings
	}
	if in.IsPremium != nil {
		updates["is_premium"] = *in.IsPremium
	}

	if err := r.DB.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.GetByID(ctx, id)
}
