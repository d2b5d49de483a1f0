package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const taskColumns = `id, title, description, status, priority, parent_id, due_at, created_at, updated_at, completed_at,
	notification_type, notification_days_before, notification_time, notification_days_of_week, notification_level, browser_actions`

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Status, in.Priority, nullString(in.ParentID),
		nullTime(in.DueAt), mustTime(in.CreatedAt), mustTime(in.UpdatedAt), nullTime(in.CompletedAt),
		in.NotificationType, nullIntPtr(in.NotificationDaysBefore), nullStringPtr(in.NotificationTime),
		nullStringPtr(in.NotificationDaysOfWeek), in.NotificationLevel, in.BrowserActions,
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, parent_id = ?, due_at = ?,
			updated_at = ?, completed_at = ?, notification_type = ?, notification_days_before = ?,
			notification_time = ?, notification_days_of_week = ?, notification_level = ?, browser_actions = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Status, in.Priority, nullString(in.ParentID), nullTime(in.DueAt),
		mustTime(in.UpdatedAt), nullTime(in.CompletedAt), in.NotificationType, nullIntPtr(in.NotificationDaysBefore),
		nullStringPtr(in.NotificationTime), nullStringPtr(in.NotificationDaysOfWeek), in.NotificationLevel,
		in.BrowserActions, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := make([]any, 0, 3)
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	return r.queryTasks(ctx, query, args...)
}

func (r *SQLiteRepository) ListActiveNotifiable(ctx context.Context) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status != 'done' AND notification_type IS NOT NULL AND notification_type NOT IN ('', 'none')
		ORDER BY notification_level DESC, created_at DESC`
	return r.queryTasks(ctx, query)
}

func (r *SQLiteRepository) queryTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateTag(ctx context.Context, in Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, in.Color, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTag(ctx context.Context, id string) (Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM tags WHERE id = ?`, id)
	item, err := scanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tag{}, ErrNotFound
		}
		return Tag{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateTag(ctx context.Context, in Tag) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = ?, color = ? WHERE id = ?`, in.Name, in.Color, in.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTag(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTags(ctx context.Context, filter TagListFilter) ([]Tag, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name ASC` + applyPagination(&args, filter.Limit, filter.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tag, 0)
	for rows.Next() {
		item, scanErr := scanTag(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) TagTask(ctx context.Context, taskID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tagID)
	return err
}

func (r *SQLiteRepository) UntagTask(ctx context.Context, taskID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, taskID, tagID)
	return err
}

func (r *SQLiteRepository) ListTaskTags(ctx context.Context, taskID string) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = ?
		ORDER BY t.name ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tag, 0)
	for rows.Next() {
		item, scanErr := scanTag(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var parent sql.NullString
	var due sql.NullString
	var created, updated string
	var completed sql.NullString
	var notifType sql.NullString
	var daysBefore sql.NullInt64
	var notifTime sql.NullString
	var daysOfWeek sql.NullString
	var level sql.NullInt64
	var browserActions sql.NullString

	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Status, &out.Priority, &parent, &due,
		&created, &updated, &completed, &notifType, &daysBefore, &notifTime, &daysOfWeek, &level, &browserActions); err != nil {
		return Task{}, err
	}

	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	dueAt, err := parseNullableTime(due)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Task{}, err
	}

	out.ParentID = parent.String
	out.DueAt = dueAt
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.CompletedAt = completedAt
	out.NotificationType = notifType.String
	if daysBefore.Valid {
		v := int(daysBefore.Int64)
		out.NotificationDaysBefore = &v
	}
	if notifTime.Valid {
		v := notifTime.String
		out.NotificationTime = &v
	}
	if daysOfWeek.Valid {
		v := daysOfWeek.String
		out.NotificationDaysOfWeek = &v
	}
	if level.Valid {
		out.NotificationLevel = int(level.Int64)
	}
	out.BrowserActions = browserActions.String
	return out, nil
}

func scanTag(s scanner) (Tag, error) {
	var out Tag
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.Color, &created); err != nil {
		return Tag{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Tag{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}
