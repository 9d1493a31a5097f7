package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/category"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
)

// CategoryService is what the category routes need from category.Service.
type CategoryService interface {
	GetCategories(ctx context.Context, params query.Params) (category.Page, error)
	GetCategory(ctx context.Context, categoryInfo string) (*domain.Category, error)
	GetAscendantCategories(ctx context.Context, categoryInfo string) ([]domain.Category, error)
	GetDescendantCategories(ctx context.Context, categoryInfo string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in category.CreateInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryInfo string, in category.UpdateInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryInfo string) error
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.GetCategories(r.Context(), query.ParamsFromValues(r.URL.Query()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ListResponse{
		Data:       page.Items,
		Pagination: newPagination(page.Spec, page.Total),
	})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), r.PathValue("categoryInfo"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, DataResponse{Data: c})
}

func (h *CategoryHandler) Ascendants(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.GetAscendantCategories(r.Context(), r.PathValue("categoryInfo"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, DataResponse{Data: cats})
}

func (h *CategoryHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.GetDescendantCategories(r.Context(), r.PathValue("categoryInfo"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, DataResponse{Data: cats})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in category.CreateInput
	if err := decodeBody(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, DataResponse{Data: c})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in category.UpdateInput
	if err := decodeBody(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), r.PathValue("categoryInfo"), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, DataResponse{Data: c})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), r.PathValue("categoryInfo")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.FormatError{Field: "body", Message: "should be a valid JSON object: " + err.Error()}
	}
	return nil
}
