package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	ferrors "github.com/matzehuels/footprint/pkg/errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondErr writes err with the status its code maps to. Internal errors
// are logged and their details withheld.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error: ferrors.UserMessage(err),
		Code:  string(ferrors.GetCode(err)),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		resp.Error = "internal error"
		resp.Code = string(ferrors.ErrCodeInternal)
	} else {
		resp.Details = err.Error()
	}
	respondJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case ferrors.Is(err, ferrors.ErrCodeNotFound):
		return http.StatusNotFound
	case ferrors.Is(err, ferrors.ErrCodeInvalidDimension),
		ferrors.Is(err, ferrors.ErrCodeInvalidArgument),
		ferrors.Is(err, ferrors.ErrCodeInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
