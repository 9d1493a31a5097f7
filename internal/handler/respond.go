package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
)

type requestIDKey struct{}

// WithRequestID stores the request id for handlers and error payloads.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"requestID,omitempty"`
}

// Pagination is the metadata attached to list replies.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

func newPagination(spec query.PageSpec, total int) Pagination {
	return Pagination{
		CurrentPage: spec.CurrentPage(),
		PageSize:    spec.Limit,
		TotalItems:  total,
		TotalPages:  spec.TotalPages(total),
	}
}

type ListResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type DataResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write_response_failed", map[string]any{
			"path":       r.URL.Path,
			"request_id": RequestID(r.Context()),
			"error":      err.Error(),
		})
	}
}

// respondError maps domain errors onto status codes. Unexpected errors are
// logged and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{RequestID: RequestID(r.Context())}
	status := http.StatusInternalServerError

	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
		resp.Code = "validation_error"
		resp.Error = "validation failed"
		resp.Details = query.Messages(err)
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		resp.Code = "not_found"
		resp.Error = err.Error()
	case domain.IsConflict(err):
		status = http.StatusConflict
		resp.Code = "conflict"
		resp.Error = err.Error()
	default:
		resp.Code = "internal_error"
		resp.Error = "internal server error"
		logger.Error("request_failed", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": resp.RequestID,
			"error":      err.Error(),
		})
	}
	writeJSON(w, r, status, resp)
}
