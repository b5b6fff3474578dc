package httpapi

import (
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/board"
	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
)

type boardResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type memberResponse struct {
	BoardID string    `json:"board_id"`
	UserID  string    `json:"user_id"`
	AddedAt time.Time `json:"added_at"`
}

func toBoardResponse(b board.Board) boardResponse {
	return boardResponse{
		ID:        b.ID,
		Title:     b.Title,
		OwnerID:   b.OwnerID,
		Color:     b.Color,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title string `json:"title"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	created, err := s.boards.Create(ctx, board.CreateInput{
		OwnerID: requestctx.UserIDFromContext(ctx),
		Title:   request.Title,
		Color:   request.Color,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, toBoardResponse(created))
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	boards, err := s.boards.List(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	response := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		response = append(response, toBoardResponse(b))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"boards": response})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	found, err := s.boards.Get(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toBoardResponse(found))
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title *string `json:"title"`
		Color *string `json:"color"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	updated, err := s.boards.Update(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"), board.UpdateInput{
		Title: request.Title,
		Color: request.Color,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toBoardResponse(updated))
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	if err := s.boards.Delete(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBoardMembers(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	members, err := s.boards.Members(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			BoardID: member.BoardID,
			UserID:  member.UserID,
			AddedAt: member.AddedAt,
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"members": response})
}
