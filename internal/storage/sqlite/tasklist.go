package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quadroapp/quadro/internal/storage"
)

// CreateList inserts one list row.
func (s *Store) CreateList(ctx context.Context, list storage.ListRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(list.ID) == "" {
		return fmt.Errorf("list id is required")
	}
	if strings.TrimSpace(list.BoardID) == "" {
		return fmt.Errorf("list board id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO lists (id, board_id, title, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, list.ID, list.BoardID, list.Title, list.Position, toMillis(list.CreatedAt), toMillis(list.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

// GetList loads one list by id.
func (s *Store) GetList(ctx context.Context, listID string) (storage.ListRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.ListRecord{}, err
	}
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return storage.ListRecord{}, fmt.Errorf("list id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, board_id, title, position, created_at, updated_at
FROM lists
WHERE id = ?
`, listID)
	record, err := scanList(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ListRecord{}, storage.ErrNotFound
		}
		return storage.ListRecord{}, fmt.Errorf("get list: %w", err)
	}
	return record, nil
}

// UpdateList persists title, position, and updated timestamp for one list.
func (s *Store) UpdateList(ctx context.Context, list storage.ListRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(list.ID) == "" {
		return fmt.Errorf("list id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE lists SET title = ?, position = ?, updated_at = ? WHERE id = ?
`, list.Title, list.Position, toMillis(list.UpdatedAt), list.ID)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update list rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteList removes one list; tasks follow via cascade.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return fmt.Errorf("list id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete list rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListListsForBoard returns the lists of one board ordered by position.
func (s *Store) ListListsForBoard(ctx context.Context, boardID string) ([]storage.ListRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return nil, fmt.Errorf("board id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, board_id, title, position, created_at, updated_at
FROM lists
WHERE board_id = ?
ORDER BY position ASC, created_at ASC, id ASC
`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list lists for board: %w", err)
	}
	defer rows.Close()

	var records []storage.ListRecord
	for rows.Next() {
		record, err := scanList(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return records, nil
}

// CreateTask inserts one task row.
func (s *Store) CreateTask(ctx context.Context, task storage.TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(task.ID) == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.TrimSpace(task.ListID) == "" {
		return fmt.Errorf("task list id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO tasks (id, list_id, title, description, due_date, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, task.ID, task.ListID, task.Title, task.Description, toNullMillis(task.DueDate), task.Position, toMillis(task.CreatedAt), toMillis(task.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask loads one task by id.
func (s *Store) GetTask(ctx context.Context, taskID string) (storage.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.TaskRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.TaskRecord{}, err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return storage.TaskRecord{}, fmt.Errorf("task id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, list_id, title, description, due_date, position, created_at, updated_at
FROM tasks
WHERE id = ?
`, taskID)
	record, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.TaskRecord{}, storage.ErrNotFound
		}
		return storage.TaskRecord{}, fmt.Errorf("get task: %w", err)
	}
	return record, nil
}

// UpdateTask persists list, title, description, due date, position, and
// updated timestamp for one task. Moving a task between lists is a list_id
// update.
func (s *Store) UpdateTask(ctx context.Context, task storage.TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(task.ID) == "" {
		return fmt.Errorf("task id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE tasks SET list_id = ?, title = ?, description = ?, due_date = ?, position = ?, updated_at = ?
WHERE id = ?
`, task.ListID, task.Title, task.Description, toNullMillis(task.DueDate), task.Position, toMillis(task.UpdatedAt), task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTask removes one task.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return fmt.Errorf("task id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListTasksForList returns the tasks of one list ordered by position.
func (s *Store) ListTasksForList(ctx context.Context, listID string) ([]storage.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, fmt.Errorf("list id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, list_id, title, description, due_date, position, created_at, updated_at
FROM tasks
WHERE list_id = ?
ORDER BY position ASC, created_at ASC, id ASC
`, listID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for list: %w", err)
	}
	defer rows.Close()

	var records []storage.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return records, nil
}

// AddTaskAssignee adds one assignment row, tolerating duplicates.
func (s *Store) AddTaskAssignee(ctx context.Context, taskID string, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	taskID = strings.TrimSpace(taskID)
	userID = strings.TrimSpace(userID)
	if taskID == "" || userID == "" {
		return fmt.Errorf("task id and user id are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR IGNORE INTO task_assignees (task_id, user_id) VALUES (?, ?)
`, taskID, userID)
	if err != nil {
		return fmt.Errorf("add task assignee: %w", err)
	}
	return nil
}

// RemoveTaskAssignee removes one assignment row.
func (s *Store) RemoveTaskAssignee(ctx context.Context, taskID string, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM task_assignees WHERE task_id = ? AND user_id = ?
`, strings.TrimSpace(taskID), strings.TrimSpace(userID))
	if err != nil {
		return fmt.Errorf("remove task assignee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove task assignee rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListTaskAssignees returns the user ids assigned to one task.
func (s *Store) ListTaskAssignees(ctx context.Context, taskID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, fmt.Errorf("task id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id FROM task_assignees WHERE task_id = ? ORDER BY user_id ASC
`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task assignees: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan task assignee: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task assignees: %w", err)
	}
	return userIDs, nil
}

func scanList(scan func(dest ...any) error) (storage.ListRecord, error) {
	var record storage.ListRecord
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.BoardID, &record.Title, &record.Position, &createdAt, &updatedAt); err != nil {
		return storage.ListRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func scanTask(scan func(dest ...any) error) (storage.TaskRecord, error) {
	var record storage.TaskRecord
	var createdAt, updatedAt int64
	var dueDate sql.NullInt64
	if err := scan(&record.ID, &record.ListID, &record.Title, &record.Description, &dueDate, &record.Position, &createdAt, &updatedAt); err != nil {
		return storage.TaskRecord{}, err
	}
	record.DueDate = fromNullMillis(dueDate)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
