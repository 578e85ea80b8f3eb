package db

import (
	"fmt"

	"ritu/internal/community"
	"ritu/internal/routine"
	"ritu/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&routine.Routine{},
		&routine.Completion{},
		&user.User{},
		&community.Post{},
		&community.Like{},
		&community.Comment{},
	); err != nil {
		return err
	}

	// The worker matches routines by the minute value inside the schedule
	// document once per tick.
	if err := gdb.Exec(`create index if not exists idx_routines_schedule_time on routines((schedule->>'time')) where deleted_at is null;`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_routines_user_created on routines(user_id, created_at desc) where deleted_at is null;`,
		`create index if not exists idx_completions_routine_date on completions(routine_id, date);`,
		`create index if not exists idx_posts_created on posts(created_at desc);`,
		`create index if not exists idx_comments_post_created on comments(post_id, created_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
