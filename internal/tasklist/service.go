package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quadroapp/quadro/internal/board"
	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/platform/id"
	"github.com/quadroapp/quadro/internal/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("tasklist store is not configured")

// CreateListInput describes one list creation request.
type CreateListInput struct {
	BoardID  string
	Title    string
	Position int
}

// UpdateListInput carries optional list updates. Nil fields are left
// unchanged.
type UpdateListInput struct {
	Title    *string
	Position *int
}

// CreateTaskInput describes one task creation request.
type CreateTaskInput struct {
	ListID      string
	Title       string
	Description string
	DueDate     *time.Time
	Position    int
}

// UpdateTaskInput carries optional task updates. Nil fields are left
// unchanged; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Position     *int
}

// Service orchestrates list and task behavior behind the board access
// policy.
type Service struct {
	store  storage.TaskListStore
	boards storage.BoardStore
	clock  func() time.Time
	newID  func() (string, error)
}

// NewService constructs list and task use-cases.
func NewService(store storage.TaskListStore, boards storage.BoardStore, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store:  store,
		boards: boards,
		clock:  clock,
		newID:  newID,
	}
}

// CreateList adds a list to a board the caller can access.
func (s *Service) CreateList(ctx context.Context, userID string, input CreateListInput) (List, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return List{}, ErrStoreNotConfigured
	}
	boardRecord, err := s.accessibleBoard(ctx, userID, input.BoardID)
	if err != nil {
		return List{}, err
	}
	title, err := normalizeListTitle(input.Title)
	if err != nil {
		return List{}, err
	}

	listID, err := s.newID()
	if err != nil {
		return List{}, fmt.Errorf("new list id: %w", err)
	}
	now := s.nowUTC()
	record := storage.ListRecord{
		ID:        listID,
		BoardID:   boardRecord.ID,
		Title:     title,
		Position:  input.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateList(ctx, record); err != nil {
		return List{}, fmt.Errorf("create list: %w", err)
	}
	return listFromRecord(record), nil
}

// Lists returns the lists of a board the caller can access, in position
// order.
func (s *Service) Lists(ctx context.Context, userID string, boardID string) ([]List, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return nil, ErrStoreNotConfigured
	}
	boardRecord, err := s.accessibleBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListListsForBoard(ctx, boardRecord.ID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	lists := make([]List, 0, len(records))
	for _, record := range records {
		lists = append(lists, listFromRecord(record))
	}
	return lists, nil
}

// UpdateList applies title and position changes to a list on a board the
// caller can access.
func (s *Service) UpdateList(ctx context.Context, userID string, listID string, input UpdateListInput) (List, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return List{}, ErrStoreNotConfigured
	}
	record, err := s.accessibleList(ctx, userID, listID)
	if err != nil {
		return List{}, err
	}

	if input.Title != nil {
		title, err := normalizeListTitle(*input.Title)
		if err != nil {
			return List{}, err
		}
		record.Title = title
	}
	if input.Position != nil {
		record.Position = *input.Position
	}
	record.UpdatedAt = s.nowUTC()

	if err := s.store.UpdateList(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return List{}, apperrors.New(apperrors.CodeNotFound, "list not found")
		}
		return List{}, fmt.Errorf("update list: %w", err)
	}
	return listFromRecord(record), nil
}

// DeleteList removes a list and its tasks from a board the caller can
// access.
func (s *Service) DeleteList(ctx context.Context, userID string, listID string) error {
	if s == nil || s.store == nil || s.boards == nil {
		return ErrStoreNotConfigured
	}
	record, err := s.accessibleList(ctx, userID, listID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "list not found")
		}
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// CreateTask adds a task to a list on a board the caller can access.
func (s *Service) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (Task, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return Task{}, ErrStoreNotConfigured
	}
	listRecord, err := s.accessibleList(ctx, userID, input.ListID)
	if err != nil {
		return Task{}, err
	}
	title, err := normalizeTaskTitle(input.Title)
	if err != nil {
		return Task{}, err
	}

	taskID, err := s.newID()
	if err != nil {
		return Task{}, fmt.Errorf("new task id: %w", err)
	}
	now := s.nowUTC()
	record := storage.TaskRecord{
		ID:          taskID,
		ListID:      listRecord.ID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		DueDate:     input.DueDate,
		Position:    input.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, record); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return taskFromRecord(record), nil
}

// Tasks returns the tasks of a list on a board the caller can access, in
// position order.
func (s *Service) Tasks(ctx context.Context, userID string, listID string) ([]Task, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return nil, ErrStoreNotConfigured
	}
	listRecord, err := s.accessibleList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListTasksForList(ctx, listRecord.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, taskFromRecord(record))
	}
	return tasks, nil
}

// UpdateTask applies field changes to a task on a board the caller can
// access. Moving between lists goes through MoveTask.
func (s *Service) UpdateTask(ctx context.Context, userID string, taskID string, input UpdateTaskInput) (Task, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return Task{}, ErrStoreNotConfigured
	}
	record, _, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return Task{}, err
	}

	if input.Title != nil {
		title, err := normalizeTaskTitle(*input.Title)
		if err != nil {
			return Task{}, err
		}
		record.Title = title
	}
	if input.Description != nil {
		record.Description = strings.TrimSpace(*input.Description)
	}
	if input.ClearDueDate {
		record.DueDate = nil
	} else if input.DueDate != nil {
		record.DueDate = input.DueDate
	}
	if input.Position != nil {
		record.Position = *input.Position
	}
	record.UpdatedAt = s.nowUTC()

	if err := s.store.UpdateTask(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Task{}, apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return taskFromRecord(record), nil
}

// DeleteTask removes a task from a board the caller can access.
func (s *Service) DeleteTask(ctx context.Context, userID string, taskID string) error {
	if s == nil || s.store == nil || s.boards == nil {
		return ErrStoreNotConfigured
	}
	record, _, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// MoveTask moves a task to another list on the same board. A target list
// on a different board is rejected.
func (s *Service) MoveTask(ctx context.Context, userID string, taskID string, targetListID string, position int) (Task, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return Task{}, ErrStoreNotConfigured
	}
	record, sourceList, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return Task{}, err
	}
	targetList, err := s.accessibleList(ctx, userID, targetListID)
	if err != nil {
		return Task{}, err
	}
	if targetList.BoardID != sourceList.BoardID {
		return Task{}, apperrors.New(apperrors.CodeTaskListMismatch, "target list belongs to a different board")
	}

	record.ListID = targetList.ID
	record.Position = position
	record.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateTask(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Task{}, apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return Task{}, fmt.Errorf("move task: %w", err)
	}
	return taskFromRecord(record), nil
}

// AssignTask assigns a board participant to a task. Users outside the
// board cannot be assigned.
func (s *Service) AssignTask(ctx context.Context, userID string, taskID string, assigneeID string) error {
	if s == nil || s.store == nil || s.boards == nil {
		return ErrStoreNotConfigured
	}
	record, sourceList, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return apperrors.New(apperrors.CodeTaskNotAssignable, "assignee id is required")
	}

	boardRecord, err := s.boards.GetBoard(ctx, sourceList.BoardID)
	if err != nil {
		return fmt.Errorf("get board: %w", err)
	}
	if boardRecord.OwnerID != assigneeID {
		isMember, err := s.boards.IsBoardMember(ctx, boardRecord.ID, assigneeID)
		if err != nil {
			return fmt.Errorf("check board member: %w", err)
		}
		if !isMember {
			return apperrors.WithMetadata(apperrors.CodeTaskNotAssignable, "assignee is not a board participant", map[string]string{
				"UserID": assigneeID,
			})
		}
	}

	if err := s.store.AddTaskAssignee(ctx, record.ID, assigneeID); err != nil {
		return fmt.Errorf("add task assignee: %w", err)
	}
	return nil
}

// UnassignTask removes an assignment from a task.
func (s *Service) UnassignTask(ctx context.Context, userID string, taskID string, assigneeID string) error {
	if s == nil || s.store == nil || s.boards == nil {
		return ErrStoreNotConfigured
	}
	record, _, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.store.RemoveTaskAssignee(ctx, record.ID, strings.TrimSpace(assigneeID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "assignment not found")
		}
		return fmt.Errorf("remove task assignee: %w", err)
	}
	return nil
}

// Assignees returns the user ids assigned to a task on a board the caller
// can access.
func (s *Service) Assignees(ctx context.Context, userID string, taskID string) ([]string, error) {
	if s == nil || s.store == nil || s.boards == nil {
		return nil, ErrStoreNotConfigured
	}
	record, _, err := s.accessibleTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	assignees, err := s.store.ListTaskAssignees(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("list task assignees: %w", err)
	}
	return assignees, nil
}

// accessibleBoard loads a board and verifies the caller can access it.
func (s *Service) accessibleBoard(ctx context.Context, userID string, boardID string) (storage.BoardRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.BoardRecord{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
	}

	record, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
		return storage.BoardRecord{}, fmt.Errorf("get board: %w", err)
	}
	if record.OwnerID != userID {
		isMember, err := s.boards.IsBoardMember(ctx, boardID, userID)
		if err != nil {
			return storage.BoardRecord{}, fmt.Errorf("check board member: %w", err)
		}
		if !board.CanAccess(userID, board.Board{ID: record.ID, OwnerID: record.OwnerID}, isMember) {
			return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
	}
	return record, nil
}

// accessibleList loads a list and verifies the caller can access its board.
func (s *Service) accessibleList(ctx context.Context, userID string, listID string) (storage.ListRecord, error) {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "list not found")
	}
	record, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "list not found")
		}
		return storage.ListRecord{}, fmt.Errorf("get list: %w", err)
	}
	if _, err := s.accessibleBoard(ctx, userID, record.BoardID); err != nil {
		// Report the list, not its board, as missing.
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "list not found")
		}
		return storage.ListRecord{}, err
	}
	return record, nil
}

// accessibleTask loads a task plus its list and verifies board access.
func (s *Service) accessibleTask(ctx context.Context, userID string, taskID string) (storage.TaskRecord, storage.ListRecord, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return storage.TaskRecord{}, storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "task not found")
	}
	record, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.TaskRecord{}, storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return storage.TaskRecord{}, storage.ListRecord{}, fmt.Errorf("get task: %w", err)
	}
	listRecord, err := s.accessibleList(ctx, userID, record.ListID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return storage.TaskRecord{}, storage.ListRecord{}, apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return storage.TaskRecord{}, storage.ListRecord{}, err
	}
	return record, listRecord, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
