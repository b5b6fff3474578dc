// Package tasklist implements lists and tasks within boards: board-scoped
// CRUD, ordering, cross-list moves, and member assignment.
package tasklist

import (
	"strings"
	"time"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

const maxTitleLength = 256

// List is one column of a board.
type List struct {
	ID        string
	BoardID   string
	Title     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is one card within a list.
type Task struct {
	ID          string
	ListID      string
	Title       string
	Description string
	DueDate     *time.Time
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func listFromRecord(record storage.ListRecord) List {
	return List{
		ID:        record.ID,
		BoardID:   record.BoardID,
		Title:     record.Title,
		Position:  record.Position,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func taskFromRecord(record storage.TaskRecord) Task {
	return Task{
		ID:          record.ID,
		ListID:      record.ListID,
		Title:       record.Title,
		Description: record.Description,
		DueDate:     record.DueDate,
		Position:    record.Position,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func normalizeListTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.New(apperrors.CodeListTitleEmpty, "list title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", apperrors.New(apperrors.CodeListTitleEmpty, "list title is too long")
	}
	return title, nil
}

func normalizeTaskTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.New(apperrors.CodeTaskTitleEmpty, "task title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", apperrors.New(apperrors.CodeTaskTitleEmpty, "task title is too long")
	}
	return title, nil
}
