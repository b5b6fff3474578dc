package httpapi

import (
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
	"github.com/quadroapp/quadro/internal/user"
)

type userResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toUserResponse(account user.User) userResponse {
	return userResponse{
		ID:                account.ID,
		Name:              account.Name,
		Email:             account.Email,
		PreferredLanguage: account.PreferredLanguage,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	account, err := s.users.Get(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toUserResponse(account))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name              *string `json:"name"`
		PreferredLanguage *string `json:"preferred_language"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	updated, err := s.users.Update(ctx, requestctx.UserIDFromContext(ctx), user.UpdateInput{
		Name:              request.Name,
		PreferredLanguage: request.PreferredLanguage,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}
