package httpapi

import (
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
	"github.com/quadroapp/quadro/internal/tasklist"
)

type taskResponse struct {
	ID          string     `json:"id"`
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(task tasklist.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		ListID:      task.ListID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Position:    task.Position,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Position    int        `json:"position"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	created, err := s.tasks.CreateTask(ctx, requestctx.UserIDFromContext(ctx), tasklist.CreateTaskInput{
		ListID:      r.PathValue("id"),
		Title:       request.Title,
		Description: request.Description,
		DueDate:     request.DueDate,
		Position:    request.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(created))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	tasks, err := s.tasks.Tasks(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	response := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"tasks": response})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
		Position     *int       `json:"position"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	updated, err := s.tasks.UpdateTask(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), tasklist.UpdateTaskInput{
		Title:        request.Title,
		Description:  request.Description,
		DueDate:      request.DueDate,
		ClearDueDate: request.ClearDueDate,
		Position:     request.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toTaskResponse(updated))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	if err := s.tasks.DeleteTask(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ListID   string `json:"list_id"`
		Position int    `json:"position"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	moved, err := s.tasks.MoveTask(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), request.ListID, request.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toTaskResponse(moved))
}

func (s *Server) handleListAssignees(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	assignees, err := s.tasks.Assignees(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if assignees == nil {
		assignees = []string{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"assignees": assignees})
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	if err := s.tasks.AssignTask(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), request.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassignTask(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	if err := s.tasks.UnassignTask(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), r.PathValue("userID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
