package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	serrors "github.com/matzehuels/snowball/pkg/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and a message.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded), serrors.Is(err, serrors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"; the client will never see it.
		return 499
	case serrors.Is(err, serrors.ErrCodeNotFound), serrors.Is(err, serrors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case serrors.Is(err, serrors.ErrCodeTooLarge):
		return http.StatusRequestEntityTooLarge
	case serrors.Is(err, serrors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	case serrors.IsInput(err):
		return http.StatusBadRequest
	case serrors.Is(err, serrors.ErrCodeNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail logs err and writes it as an error response. Internal details are
// only exposed for client errors.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := string(serrors.GetCode(err))
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = string(serrors.ErrCodeTimeout)
	case code == "":
		code = string(serrors.ErrCodeInternal)
	}
	msg := serrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	reqID := chimiddleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request", reqID, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "request", reqID, "status", status, "err", err)
	}
	writeError(w, status, code, msg, reqID)
}

func writeError(w http.ResponseWriter, status int, code, msg, reqID string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg, RequestID: reqID}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
