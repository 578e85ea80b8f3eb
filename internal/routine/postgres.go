package routine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresRepository is the networked implementation of the storage
// contract, backed by GORM. Ownership filtering happens in every query so
// records owned by other users are indistinguishable from absent ones.
type PostgresRepository struct {
	DB *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, p Pagination) (Page, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}

	q := r.DB.WithContext(ctx).Model(&Routine{}).
		Where("user_id = ? AND deleted_at IS NULL", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("count routines: %w", err)
	}

	items := []Routine{}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return Page{}, fmt.Errorf("list routines: %w", err)
	}
	return Page{Items: items, Page: page, Limit: limit, Total: total}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, routineID string) (*Routine, error) {
	var routine Routine
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", routineID, userID).
		First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}
	return &routine, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, in CreateInput) (*Routine, error) {
	now := time.Now()
	schedule := in.Schedule
	if schedule == nil {
		schedule = Schedule{}
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	routine := Routine{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Schedule:    schedule,
		AutoShare:   in.AutoShare,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.DB.WithContext(ctx).Create(&routine).Error; err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}
	return &routine, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, routineID string, in UpdateInput) (*Routine, error) {
	existing, err := r.GetByID(ctx, userID, routineID)
	if err != nil || existing == nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *in.Description
		}
	}
	if in.Schedule != nil {
		updates["schedule"] = in.Schedule
	}
	if in.AutoShare != nil {
		updates["auto_share"] = *in.AutoShare
	}
	if in.Visibility != nil {
		updates["visibility"] = string(*in.Visibility)
	}

	err = r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ? AND user_id = ?", routineID, userID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("update routine: %w", err)
	}
	return r.GetByID(ctx, userID, routineID)
}

func (r *PostgresRepository) UpdateStreaks(ctx context.Context, userID, routineID string, s StreakUpdate) (*Routine, error) {
	res := r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ? AND user_id = ?", routineID, userID).
		Updates(map[string]any{
			"current_streak": s.Current,
			"max_streak":     s.Max,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update streaks: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, userID, routineID)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, userID, routineID string, deletedAt time.Time) (*Routine, error) {
	res := r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ? AND user_id = ?", routineID, userID).
		Updates(map[string]any{
			"deleted_at": deletedAt,
			"updated_at": deletedAt,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("soft delete routine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, userID, routineID)
}

func (r *PostgresRepository) Restore(ctx context.Context, userID, routineID string) (*Routine, error) {
	res := r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ? AND user_id = ?", routineID, userID).
		Updates(map[string]any{
			"deleted_at": nil,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("restore routine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, userID, routineID)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Routine{}).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count routines: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListCompletions(ctx context.Context, userID, routineID string, dr DateRange) ([]Completion, error) {
	owner, err := r.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return []Completion{}, nil
	}

	q := r.DB.WithContext(ctx).Where("routine_id = ?", routineID)
	if dr.From != "" {
		q = q.Where("date >= ?", dr.From)
	}
	if dr.To != "" {
		q = q.Where("date <= ?", dr.To)
	}

	items := []Completion{}
	if err := q.Order("date ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) AddCompletion(ctx context.Context, userID, routineID, date string) (*Completion, error) {
	owner, err := r.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, nil
	}

	now := time.Now()
	completion := Completion{
		ID:        uuid.NewString(),
		RoutineID: routineID,
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
	}
	// The unique (routine_id, date) key makes the insert idempotent: a
	// concurrent or repeated add lands on DO NOTHING and the existing row
	// is read back.
	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "routine_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&completion).Error
	if err != nil {
		return nil, fmt.Errorf("add completion: %w", err)
	}

	var existing Completion
	err = r.DB.WithContext(ctx).
		Where("routine_id = ? AND date = ?", routineID, date).
		First(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("read completion: %w", err)
	}

	err = r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ?", routineID).
		Update("updated_at", now).Error
	if err != nil {
		return nil, fmt.Errorf("touch routine: %w", err)
	}
	return &existing, nil
}

func (r *PostgresRepository) RemoveCompletion(ctx context.Context, userID, routineID, date string) (bool, error) {
	owner, err := r.GetByID(ctx, userID, routineID)
	if err != nil {
		return false, err
	}
	if owner == nil {
		return false, nil
	}

	res := r.DB.WithContext(ctx).
		Where("routine_id = ? AND date = ?", routineID, date).
		Delete(&Completion{})
	if res.Error != nil {
		return false, fmt.Errorf("remove completion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	err = r.DB.WithContext(ctx).Model(&Routine{}).
		Where("id = ?", routineID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return false, fmt.Errorf("touch routine: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) ListByScheduleTime(ctx context.Context, t string) (map[string][]Routine, error) {
	var routines []Routine
	err := r.DB.WithContext(ctx).
		Where("deleted_at IS NULL AND schedule->>'time' = ?", t).
		Find(&routines).Error
	if err != nil {
		return nil, fmt.Errorf("list routines by schedule time: %w", err)
	}

	out := make(map[string][]Routine)
	for _, routine := range routines {
		out[routine.UserID] = append(out[routine.UserID], routine)
	}
	return out, nil
}
