package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// NotificationSettings is the user's delivery preference document. Stored
// as one jsonb column; the engine only reads it in the reconciliation
// worker, delivery itself belongs to the messaging collaborator.
type NotificationSettings struct {
	LineEnabled  bool   `json:"lineEnabled"`
	LineUserID   string `json:"lineUserId"`
	ScheduleTime string `json:"scheduleTime"` // "HH:MM", informational
}

func (n NotificationSettings) Value() (driver.Value, error) {
	return json.Marshal(n)
}

func (n *NotificationSettings) Scan(value any) error {
	if value == nil {
		*n = NotificationSettings{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("notification settings: unsupported column type")
	}
	return json.Unmarshal(b, n)
}

// User is the profile record keyed by the identity provider's subject.
// IsPremium gates the routine-count limit.
type User struct {
	ID                   string               `json:"id" gorm:"primaryKey"`
	DisplayName          string               `json:"displayName" gorm:"type:text;not null"`
	PhotoURL             *string              `json:"photoUrl" gorm:"type:text"`
	NotificationSettings NotificationSettings `json:"notificationSettings" gorm:"type:jsonb;not null;default:'{}'::jsonb"`
	IsPremium            bool                 `json:"isPremium" gorm:"not null;default:false"`
	CreatedAt            time.Time            `json:"createdAt" gorm:"not null"`
	UpdatedAt            time.Time            `json:"updatedAt" gorm:"not null"`
}

// UpdateInput is a partial profile update; nil fields stay unchanged.
type UpdateInput struct {
	DisplayName          *string               `json:"displayName"`
	PhotoURL             *string               `json:"photoUrl"`
	NotificationSettings *NotificationSettings `json:"notificationSettings"`
	IsPremium            *bool                 `json:"isPremium"`
}
