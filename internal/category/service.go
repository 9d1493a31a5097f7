// Package category resolves the category forest: ascendant and descendant
// walks, the filtered listing and the create/update/delete lifecycle.
package category

import (
	"context"
	"strings"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/resource"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// ParamParentName filters the listing by the names of parent categories.
const ParamParentName = "parentName"

// Store is the persistence side of the category tree.
type Store interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]domain.Category, error)
	FindIDsByNames(ctx context.Context, names []string) ([]string, error)
	ListCategories(ctx context.Context, q query.Query) ([]domain.Category, int, error)
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Page is one listing page with the window it was read through.
type Page struct {
	Items []domain.Category
	Total int
	Spec  query.PageSpec
}

type Service struct {
	store    Store
	res      *resource.Resource
	compiler *query.Compiler
	newID    func() string
}

// NewService wires the store to the "categories" field table.
func NewService(store Store, res *resource.Resource, pages *query.PaginationBuilder, opts ...query.FilterOption) *Service {
	return &Service{
		store:    store,
		res:      res,
		compiler: res.Compiler(pages, opts...),
		newID:    uuid.NewString,
	}
}

// resolve looks categoryInfo up as an ID first, then as a name.
func (s *Service) resolve(ctx context.Context, categoryInfo string) (*domain.Category, error) {
	c, err := s.store.FindByID(ctx, categoryInfo)
	if err == nil {
		return c, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	c, err = s.store.FindByName(ctx, categoryInfo)
	if domain.IsNotFound(err) {
		return nil, domain.NotFoundError{Resource: "category", Key: categoryInfo, Err: err}
	}
	return c, err
}

// GetCategory returns the category named by ID or name.
func (s *Service) GetCategory(ctx context.Context, categoryInfo string) (*domain.Category, error) {
	return s.resolve(ctx, categoryInfo)
}

// GetCategories lists categories matching params. A parentName value is
// resolved to parent IDs first; when no name matches, the listing is not
// constrained by parent at all.
func (s *Service) GetCategories(ctx context.Context, params query.Params) (Page, error) {
	rest := make(query.Params, len(params))
	for k, v := range params {
		if k != ParamParentName {
			rest[k] = v
		}
	}

	var result *multierror.Error
	q, err := s.compiler.Compile(rest)
	if err != nil {
		result = query.Collect(result, err)
	}

	var names []string
	if raw, ok := params[ParamParentName]; ok {
		if names, err = query.StringValues(raw); err != nil {
			result = query.Collect(result, domain.FormatError{Field: ParamParentName, Message: err.Error()})
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return Page{}, err
	}

	if len(names) > 0 {
		ids, err := s.store.FindIDsByNames(ctx, names)
		if err != nil {
			return Page{}, err
		}
		// Tagged with their own field name so they form an OR-group of
		// their own, ANDed with any client parentID filter.
		for _, id := range ids {
			q.Filter = append(q.Filter, query.Condition{
				Field:    ParamParentName,
				Column:   s.res.Column("parentID"),
				Operator: query.OpEq,
				Operand:  id,
			})
		}
	}

	items, total, err := s.store.ListCategories(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, Spec: q.Page}, nil
}

// GetAscendantCategories returns the category followed by its parent chain up
// to the root. An unknown start yields an empty list.
func (s *Service) GetAscendantCategories(ctx context.Context, categoryInfo string) ([]domain.Category, error) {
	start, err := s.resolve(ctx, categoryInfo)
	if domain.IsNotFound(err) {
		return []domain.Category{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := []domain.Category{*start}
	visited := map[string]bool{start.CategoryID: true}
	for cur := start; !cur.IsRoot(); {
		parent, err := s.store.FindByID(ctx, *cur.ParentID)
		if domain.IsNotFound(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		if visited[parent.CategoryID] {
			logger.Warn("category_cycle_detected", map[string]any{
				"start":    start.CategoryID,
				"category": parent.CategoryID,
			})
			break
		}
		visited[parent.CategoryID] = true
		out = append(out, *parent)
		cur = parent
	}
	return out, nil
}

// GetDescendantCategoriesByID returns every descendant of id, excluding id
// itself. Each node's children are listed together, followed by the
// descendants of each child in turn.
func (s *Service) GetDescendantCategoriesByID(ctx context.Context, id string) ([]domain.Category, error) {
	out := []domain.Category{}
	visited := map[string]bool{id: true}
	stack := []string{id}

	for len(stack) > 0 {
		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.store.FindChildren(ctx, parentID)
		if err != nil {
			return nil, err
		}
		fresh := make([]string, 0, len(children))
		for _, c := range children {
			if visited[c.CategoryID] {
				logger.Warn("category_cycle_detected", map[string]any{
					"start":    id,
					"category": c.CategoryID,
				})
				continue
			}
			visited[c.CategoryID] = true
			out = append(out, c)
			fresh = append(fresh, c.CategoryID)
		}
		for i := len(fresh) - 1; i >= 0; i-- {
			stack = append(stack, fresh[i])
		}
	}
	return out, nil
}

// GetDescendantCategories resolves the root by ID or name and returns it
// followed by its descendants. Unlike the ascendant walk, an unknown root is
// a NotFoundError.
func (s *Service) GetDescendantCategories(ctx context.Context, categoryInfo string) ([]domain.Category, error) {
	root, err := s.resolve(ctx, categoryInfo)
	if err != nil {
		return nil, err
	}
	desc, err := s.GetDescendantCategoriesByID(ctx, root.CategoryID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Category{*root}, desc...), nil
}

// CreateInput is a new category. Parent is an ID or name; empty makes a root.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      string `json:"parent"`
}

// UpdateInput changes only the fields that are set. A Parent of "" clears
// the parent.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Parent      *string `json:"parent"`
}

func (s *Service) CreateCategory(ctx context.Context, in CreateInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := domain.Category{
		CategoryID:  s.newID(),
		Name:        name,
		Description: in.Description,
	}
	if in.Parent != "" {
		parent, err := s.resolveParent(ctx, in.Parent)
		if err != nil {
			return nil, err
		}
		c.ParentID = &parent.CategoryID
	}

	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Info("category_created", map[string]any{"categoryID": created.CategoryID, "name": created.Name})
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, categoryInfo string, in UpdateInput) (*domain.Category, error) {
	c, err := s.resolve(ctx, categoryInfo)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Parent != nil {
		if *in.Parent == "" {
			c.ParentID = nil
		} else {
			parent, err := s.resolveParent(ctx, *in.Parent)
			if err != nil {
				return nil, err
			}
			if parent.CategoryID == c.CategoryID {
				return nil, domain.FormatError{Field: "parent", Message: "cannot reference the category itself"}
			}
			c.ParentID = &parent.CategoryID
		}
	}

	updated, err := s.store.UpdateCategory(ctx, *c)
	if err != nil {
		return nil, err
	}
	logger.Info("category_updated", map[string]any{"categoryID": updated.CategoryID})
	return updated, nil
}

// DeleteCategory removes one category. Its children become roots.
func (s *Service) DeleteCategory(ctx context.Context, categoryInfo string) error {
	c, err := s.resolve(ctx, categoryInfo)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCategory(ctx, c.CategoryID); err != nil {
		return err
	}
	logger.Info("category_deleted", map[string]any{"categoryID": c.CategoryID})
	return nil
}

func (s *Service) resolveParent(ctx context.Context, parent string) (*domain.Category, error) {
	p, err := s.resolve(ctx, parent)
	if domain.IsNotFound(err) {
		return nil, domain.NotFoundError{Resource: "parent category", Key: parent, Err: err}
	}
	return p, err
}

func validateName(name string) error {
	if name == "" {
		return domain.FormatError{Field: "name", Message: "is required"}
	}
	if _, err := query.StringValues(name); err != nil {
		return domain.FormatError{Field: "name", Message: "should have valid string format"}
	}
	return nil
}
