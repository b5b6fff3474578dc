package httpapi

import (
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/invitation"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
)

type invitationResponse struct {
	ID            string    `json:"id"`
	BoardID       string    `json:"board_id"`
	InvitedUserID string    `json:"invited_user_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toInvitationResponse(inv invitation.Invitation) invitationResponse {
	return invitationResponse{
		ID:            inv.ID,
		BoardID:       inv.BoardID,
		InvitedUserID: inv.InvitedUserID,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		BoardID       string `json:"board_id"`
		InvitedUserID string `json:"invited_user_id"`
		InvitedEmail  string `json:"invited_email"`
	}
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := httpx.RequestContext(r)
	created, err := s.invitations.Create(ctx, invitation.CreateInput{
		InviterID:     requestctx.UserIDFromContext(ctx),
		BoardID:       request.BoardID,
		InvitedUserID: request.InvitedUserID,
		InvitedEmail:  request.InvitedEmail,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(created))
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	invitations, err := s.invitations.List(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	response := make([]invitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		response = append(response, toInvitationResponse(inv))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"invitations": response})
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	accepted, err := s.invitations.Accept(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(accepted))
}

func (s *Server) handleRejectInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	rejected, err := s.invitations.Reject(ctx, requestctx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(rejected))
}
