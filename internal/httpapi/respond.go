package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quadroapp/quadro/internal/httpapi/httpx"
	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/platform/requestctx"
)

const maxBodyBytes = 1 << 20

// writeError renders a domain error as a localized JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	locale := requestctx.LanguageFromContext(httpx.RequestContext(r))
	response := apperrors.HandleError(err, locale)
	if response.Status >= http.StatusInternalServerError {
		s.logger.Printf("internal error method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
	if writeErr := httpx.WriteJSON(w, response.Status, response); writeErr != nil {
		s.logger.Printf("write error response: %v", writeErr)
	}
}

// decodeJSON reads one JSON body into target with a size cap.
func decodeJSON(r *http.Request, target any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidBody, fmt.Sprintf("invalid request body: %v", err), err)
	}
	return nil
}
