// Package httpapi exposes the REST/JSON transport over the domain
// services.
package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/quadroapp/quadro/internal/board"
	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	"github.com/quadroapp/quadro/internal/invitation"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
	"github.com/quadroapp/quadro/internal/tasklist"
	"github.com/quadroapp/quadro/internal/user"
)

// Server routes authenticated API requests to the domain services.
type Server struct {
	boards      *board.Service
	invitations *invitation.Service
	tasks       *tasklist.Service
	users       *user.Service
	verifier    TokenVerifierConfig
	logger      *log.Logger
}

// NewServer constructs the API transport.
func NewServer(boards *board.Service, invitations *invitation.Service, tasks *tasklist.Service, users *user.Service, verifier TokenVerifierConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		boards:      boards,
		invitations: invitations,
		tasks:       tasks,
		users:       users,
		verifier:    verifier,
		logger:      logger,
	}
}

// Handler returns the full middleware-wrapped route set.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("POST /boards", s.authenticated(s.handleCreateBoard))
	mux.Handle("GET /boards", s.authenticated(s.handleListBoards))
	mux.Handle("GET /boards/{id}", s.authenticated(s.handleGetBoard))
	mux.Handle("PATCH /boards/{id}", s.authenticated(s.handleUpdateBoard))
	mux.Handle("DELETE /boards/{id}", s.authenticated(s.handleDeleteBoard))
	mux.Handle("GET /boards/{id}/members", s.authenticated(s.handleListBoardMembers))

	mux.Handle("GET /boards/{id}/lists", s.authenticated(s.handleListLists))
	mux.Handle("POST /boards/{id}/lists", s.authenticated(s.handleCreateList))
	mux.Handle("PATCH /lists/{id}", s.authenticated(s.handleUpdateList))
	mux.Handle("DELETE /lists/{id}", s.authenticated(s.handleDeleteList))

	mux.Handle("GET /lists/{id}/tasks", s.authenticated(s.handleListTasks))
	mux.Handle("POST /lists/{id}/tasks", s.authenticated(s.handleCreateTask))
	mux.Handle("PATCH /tasks/{id}", s.authenticated(s.handleUpdateTask))
	mux.Handle("DELETE /tasks/{id}", s.authenticated(s.handleDeleteTask))
	mux.Handle("POST /tasks/{id}/move", s.authenticated(s.handleMoveTask))
	mux.Handle("GET /tasks/{id}/assignees", s.authenticated(s.handleListAssignees))
	mux.Handle("POST /tasks/{id}/assignees", s.authenticated(s.handleAssignTask))
	mux.Handle("DELETE /tasks/{id}/assignees/{userID}", s.authenticated(s.handleUnassignTask))

	mux.Handle("POST /invitations", s.authenticated(s.handleCreateInvitation))
	mux.Handle("GET /invitations", s.authenticated(s.handleListInvitations))
	mux.Handle("PATCH /invitations/{id}/accept", s.authenticated(s.handleAcceptInvitation))
	mux.Handle("PATCH /invitations/{id}/reject", s.authenticated(s.handleRejectInvitation))

	mux.Handle("GET /me", s.authenticated(s.handleGetMe))
	mux.Handle("PATCH /me", s.authenticated(s.handleUpdateMe))

	return httpx.Chain(mux,
		httpx.RecoverPanic(s.logger),
		httpx.RequestID(),
		httpx.RequestLogger(s.logger),
		httpx.Trace("quadro/httpapi"),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authenticated verifies the bearer token, upserts the caller's account
// row, and stores identity plus locale in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := VerifyToken(bearerToken(r), s.verifier)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := httpx.RequestContext(r)
		account, err := s.users.Ensure(ctx, user.EnsureInput{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		locale := account.PreferredLanguage
		if locale == "" || locale == user.DefaultLanguage {
			if header := acceptLanguage(r); header != "" {
				locale = header
			}
		}

		ctx = requestctx.WithUserID(ctx, account.ID)
		ctx = requestctx.WithLanguage(ctx, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// acceptLanguage returns the first language tag of the Accept-Language
// header, without its quality value.
func acceptLanguage(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return ""
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return strings.TrimSpace(first)
}
