package handler

import (
	"context"
	"net/http"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/resource"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/store"
)

// Lister runs a compiled query against one resource.
type Lister interface {
	List(ctx context.Context, res *resource.Resource, q query.Query) (store.Result, error)
}

// ResourceHandler serves GET /api/v1/{resource} for every registered table.
type ResourceHandler struct {
	registry *resource.Registry
	lister   Lister
	pages    *query.PaginationBuilder
	opts     []query.FilterOption
}

func NewResourceHandler(registry *resource.Registry, lister Lister, pages *query.PaginationBuilder, opts ...query.FilterOption) *ResourceHandler {
	return &ResourceHandler{registry: registry, lister: lister, pages: pages, opts: opts}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("resource")
	res, ok := h.registry.Get(name)
	if !ok {
		respondError(w, r, domain.NotFoundError{Resource: "resource", Key: name})
		return
	}

	q, err := res.Compiler(h.pages, h.opts...).Compile(query.ParamsFromValues(r.URL.Query()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.lister.List(r.Context(), res, q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ListResponse{
		Data:       result.Rows,
		Pagination: newPagination(q.Page, result.Total),
	})
}
