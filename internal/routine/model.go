package routine

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Visibility controls who a routine is shared with.
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityFollowers:
		return true
	}
	return false
}

// Schedule is an opaque structured document describing when a routine
// happens. The engine stores and returns it untouched; interpreting its
// contents (e.g. a notification time) is a collaborator's concern.
type Schedule map[string]any

func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *Schedule) Scan(value any) error {
	if value == nil {
		*s = Schedule{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("schedule: unsupported column type")
	}
	return json.Unmarshal(b, s)
}

// Routine is a recurring commitment owned by a single user. A non-nil
// DeletedAt marks a tombstone: the record stays put and is hidden from
// every read path except restore.
type Routine struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	UserID        string     `json:"userId" gorm:"index;not null"`
	Title         string     `json:"title" gorm:"type:text;not null"`
	Description   *string    `json:"description" gorm:"type:text"`
	Schedule      Schedule   `json:"schedule" gorm:"type:jsonb;not null;default:'{}'::jsonb"`
	AutoShare     bool       `json:"autoShare" gorm:"not null;default:false"`
	Visibility    Visibility `json:"visibility" gorm:"type:text;not null;default:'private'"`
	CurrentStreak int        `json:"currentStreak" gorm:"not null;default:0"`
	MaxStreak     int        `json:"maxStreak" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"not null"`
	UpdatedAt     time.Time  `json:"updatedAt" gorm:"not null"`
	DeletedAt     *time.Time `json:"deletedAt" gorm:"type:timestamptz;index"`
}

// Completion records that a routine was performed on one calendar date.
// At most one exists per (routine, date).
type Completion struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	RoutineID string    `json:"routineId" gorm:"not null;uniqueIndex:uq_completions_routine_date,priority:1"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Date      string    `json:"date" gorm:"type:text;not null;uniqueIndex:uq_completions_routine_date,priority:2"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
