package httpapi

import (
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
	"github.com/quadroapp/quadro/internal/tasklist"
)

type listResponse struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toListResponse(list tasklist.List) listResponse {
	return listResponse{
		ID:        list.ID,
		BoardID:   list.BoardID,
		Title:     list.Title,
		Position:  list.Position,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title    string `json:"title"`
		Position int    `json:"position"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	created, err := s.tasks.CreateList(ctx, requestctx.UserIDFromContext(ctx), tasklist.CreateListInput{
		BoardID:  r.PathValue("id"),
		Title:    request.Title,
		Position: request.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, toListResponse(created))
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	lists, err := s.tasks.Lists(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	response := make([]listResponse, 0, len(lists))
	for _, list := range lists {
		response = append(response, toListResponse(list))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"lists": response})
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title    *string `json:"title"`
		Position *int    `json:"position"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	updated, err := s.tasks.UpdateList(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), tasklist.UpdateListInput{
		Title:    request.Title,
		Position: request.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toListResponse(updated))
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	if err := s.tasks.DeleteList(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
