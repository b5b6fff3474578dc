package tasklist

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

// fakeStore backs both the tasklist and board persistence contracts.
type fakeStore struct {
	boards    map[string]storage.BoardRecord
	members   map[string]map[string]bool
	lists     map[string]storage.ListRecord
	tasks     map[string]storage.TaskRecord
	assignees map[string]map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		boards:    make(map[string]storage.BoardRecord),
		members:   make(map[string]map[string]bool),
		lists:     make(map[string]storage.ListRecord),
		tasks:     make(map[string]storage.TaskRecord),
		assignees: make(map[string]map[string]bool),
	}
}

func (f *fakeStore) CreateBoard(_ context.Context, b storage.BoardRecord, _ int) error {
	f.boards[b.ID] = b
	return nil
}

func (f *fakeStore) GetBoard(_ context.Context, boardID string) (storage.BoardRecord, error) {
	b, ok := f.boards[boardID]
	if !ok {
		return storage.BoardRecord{}, storage.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) UpdateBoard(_ context.Context, b storage.BoardRecord) error {
	f.boards[b.ID] = b
	return nil
}

func (f *fakeStore) DeleteBoard(_ context.Context, boardID string) error {
	delete(f.boards, boardID)
	return nil
}

func (f *fakeStore) ListBoardsForUser(_ context.Context, _ string) ([]storage.BoardRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListBoardMembers(_ context.Context, _ string) ([]storage.MemberRecord, error) {
	return nil, nil
}

func (f *fakeStore) IsBoardMember(_ context.Context, boardID string, userID string) (bool, error) {
	return f.members[boardID][userID], nil
}

func (f *fakeStore) CountBoardMembers(_ context.Context, boardID string) (int, error) {
	return len(f.members[boardID]), nil
}

func (f *fakeStore) CountBoardsForUser(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (f *fakeStore) CreateList(_ context.Context, record storage.ListRecord) error {
	f.lists[record.ID] = record
	return nil
}

func (f *fakeStore) GetList(_ context.Context, listID string) (storage.ListRecord, error) {
	record, ok := f.lists[listID]
	if !ok {
		return storage.ListRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) UpdateList(_ context.Context, record storage.ListRecord) error {
	if _, ok := f.lists[record.ID]; !ok {
		return storage.ErrNotFound
	}
	f.lists[record.ID] = record
	return nil
}

func (f *fakeStore) DeleteList(_ context.Context, listID string) error {
	if _, ok := f.lists[listID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.lists, listID)
	return nil
}

func (f *fakeStore) ListListsForBoard(_ context.Context, boardID string) ([]storage.ListRecord, error) {
	var records []storage.ListRecord
	for _, record := range f.lists {
		if record.BoardID == boardID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *fakeStore) CreateTask(_ context.Context, record storage.TaskRecord) error {
	f.tasks[record.ID] = record
	return nil
}

func (f *fakeStore) GetTask(_ context.Context, taskID string) (storage.TaskRecord, error) {
	record, ok := f.tasks[taskID]
	if !ok {
		return storage.TaskRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, record storage.TaskRecord) error {
	if _, ok := f.tasks[record.ID]; !ok {
		return storage.ErrNotFound
	}
	f.tasks[record.ID] = record
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, taskID string) error {
	if _, ok := f.tasks[taskID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeStore) ListTasksForList(_ context.Context, listID string) ([]storage.TaskRecord, error) {
	var records []storage.TaskRecord
	for _, record := range f.tasks {
		if record.ListID == listID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *fakeStore) AddTaskAssignee(_ context.Context, taskID string, userID string) error {
	if f.assignees[taskID] == nil {
		f.assignees[taskID] = make(map[string]bool)
	}
	f.assignees[taskID][userID] = true
	return nil
}

func (f *fakeStore) RemoveTaskAssignee(_ context.Context, taskID string, userID string) error {
	if !f.assignees[taskID][userID] {
		return storage.ErrNotFound
	}
	delete(f.assignees[taskID], userID)
	return nil
}

func (f *fakeStore) ListTaskAssignees(_ context.Context, taskID string) ([]string, error) {
	var userIDs []string
	for userID := range f.assignees[taskID] {
		userIDs = append(userIDs, userID)
	}
	return userIDs, nil
}

func (f *fakeStore) addBoard(id string, ownerID string) {
	f.boards[id] = storage.BoardRecord{ID: id, Title: "Board " + id, OwnerID: ownerID}
}

func (f *fakeStore) addMember(boardID string, userID string) {
	if f.members[boardID] == nil {
		f.members[boardID] = make(map[string]bool)
	}
	f.members[boardID][userID] = true
}

func fixedClock() time.Time {
	return time.Date(2026, time.April, 4, 11, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() (string, error) {
	var n int
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, store, fixedClock, sequentialIDs("item"))
}

func TestCreateListRequiresBoardAccess(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	store.addMember("board-1", "member-1")
	service := newTestService(store)

	if _, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"}); err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if _, err := service.CreateList(context.Background(), "member-1", CreateListInput{BoardID: "board-1", Title: "Doing"}); err != nil {
		t.Fatalf("member create: %v", err)
	}

	_, err := service.CreateList(context.Background(), "outsider-1", CreateListInput{BoardID: "board-1", Title: "Nope"})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for outsider, got %v", err)
	}

	_, err = service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "  "})
	if !apperrors.IsCode(err, apperrors.CodeListTitleEmpty) {
		t.Fatalf("expected LIST_TITLE_EMPTY, got %v", err)
	}
}

func TestCreateTaskValidatesTitle(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	service := newTestService(store)

	list, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	_, err = service.CreateTask(context.Background(), "owner-1", CreateTaskInput{ListID: list.ID, Title: " "})
	if !apperrors.IsCode(err, apperrors.CodeTaskTitleEmpty) {
		t.Fatalf("expected TASK_TITLE_EMPTY, got %v", err)
	}

	due := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	task, err := service.CreateTask(context.Background(), "owner-1", CreateTaskInput{
		ListID:      list.ID,
		Title:       "  Write release notes  ",
		Description: "for 1.0",
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "Write release notes" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("due date = %v, want %v", task.DueDate, due)
	}
}

func TestMoveTaskStaysWithinBoard(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	store.addBoard("board-2", "owner-1")
	service := newTestService(store)

	source, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	target, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Done"})
	if err != nil {
		t.Fatalf("create target: %v", err)
	}
	foreign, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-2", Title: "Elsewhere"})
	if err != nil {
		t.Fatalf("create foreign: %v", err)
	}
	task, err := service.CreateTask(context.Background(), "owner-1", CreateTaskInput{ListID: source.ID, Title: "Ship"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	moved, err := service.MoveTask(context.Background(), "owner-1", task.ID, target.ID, 4)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ListID != target.ID || moved.Position != 4 {
		t.Fatalf("moved = %+v, want list %s position 4", moved, target.ID)
	}

	_, err = service.MoveTask(context.Background(), "owner-1", task.ID, foreign.ID, 0)
	if !apperrors.IsCode(err, apperrors.CodeTaskListMismatch) {
		t.Fatalf("expected TASK_LIST_MISMATCH, got %v", err)
	}
}

func TestAssignTaskRequiresBoardParticipant(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	store.addMember("board-1", "member-1")
	service := newTestService(store)

	list, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	task, err := service.CreateTask(context.Background(), "owner-1", CreateTaskInput{ListID: list.ID, Title: "Review"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := service.AssignTask(context.Background(), "owner-1", task.ID, "member-1"); err != nil {
		t.Fatalf("assign member: %v", err)
	}
	if err := service.AssignTask(context.Background(), "owner-1", task.ID, "owner-1"); err != nil {
		t.Fatalf("assign owner: %v", err)
	}

	err = service.AssignTask(context.Background(), "owner-1", task.ID, "outsider-1")
	if !apperrors.IsCode(err, apperrors.CodeTaskNotAssignable) {
		t.Fatalf("expected TASK_NOT_ASSIGNABLE, got %v", err)
	}

	assignees, err := service.Assignees(context.Background(), "member-1", task.ID)
	if err != nil {
		t.Fatalf("assignees: %v", err)
	}
	if len(assignees) != 2 {
		t.Fatalf("expected 2 assignees, got %d", len(assignees))
	}

	if err := service.UnassignTask(context.Background(), "owner-1", task.ID, "member-1"); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if err := service.UnassignTask(context.Background(), "owner-1", task.ID, "member-1"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for repeated unassign, got %v", err)
	}
}

func TestUpdateTaskClearsDueDate(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	service := newTestService(store)

	list, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	due := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	task, err := service.CreateTask(context.Background(), "owner-1", CreateTaskInput{ListID: list.ID, Title: "Dated", DueDate: &due})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := service.UpdateTask(context.Background(), "owner-1", task.ID, UpdateTaskInput{ClearDueDate: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueDate != nil {
		t.Fatalf("due date = %v, want cleared", updated.DueDate)
	}
}

func TestTaskAccessHiddenFromOutsiders(t *testing.T) {
	store := newFakeStore()
	store.addBoard("board-1", "owner-1")
	service := newTestService(store)

	list, err := service.CreateList(context.Background(), "owner-1", CreateListInput{BoardID: "board-1", Title: "Todo"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	task, err := service.CreateTask(context.Background(), "owner-1", CreateTaskInput{ListID: list.ID, Title: "Secret"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := service.Tasks(context.Background(), "outsider-1", list.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND listing tasks, got %v", err)
	}
	if _, err := service.UpdateTask(context.Background(), "outsider-1", task.ID, UpdateTaskInput{}); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND updating task, got %v", err)
	}
	if err := service.DeleteTask(context.Background(), "outsider-1", task.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND deleting task, got %v", err)
	}
}
