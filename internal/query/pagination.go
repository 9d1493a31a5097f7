package query

import (
	"regexp"
	"strconv"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/hashicorp/go-multierror"
)

const (
	ParamPage = "page"
	ParamSize = "size"

	DefaultPage     = 1
	DefaultPageSize = 10
)

var positiveIntPattern = regexp.MustCompile(`^\d+$`)

// PageSpec is the offset/limit window of one list request.
type PageSpec struct {
	Offset int
	Limit  int
}

// CurrentPage is derived from the window rather than stored next to it.
func (p PageSpec) CurrentPage() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// TotalPages returns how many pages of Limit rows hold total rows.
func (p PageSpec) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

type PaginationBuilder struct {
	defaultPage int
	defaultSize int
}

// NewPaginationBuilder falls back to DefaultPage/DefaultPageSize for
// non-positive defaults.
func NewPaginationBuilder(defaultPage, defaultSize int) *PaginationBuilder {
	if defaultPage < 1 {
		defaultPage = DefaultPage
	}
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	return &PaginationBuilder{defaultPage: defaultPage, defaultSize: defaultSize}
}

// Build reads page and size from params. Both must be integers >= 1 when
// present.
func (b *PaginationBuilder) Build(params Params) (PageSpec, error) {
	var result *multierror.Error

	page, err := positiveInt(params, ParamPage, b.defaultPage)
	if err != nil {
		result = Collect(result, err)
	}
	size, err := positiveInt(params, ParamSize, b.defaultSize)
	if err != nil {
		result = Collect(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return PageSpec{}, err
	}
	return PageSpec{Offset: (page - 1) * size, Limit: size}, nil
}

func positiveInt(params Params, key string, fallback int) (int, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}
	invalid := domain.FormatError{Field: key, Message: "should be a positive integer"}
	s, ok := raw.(string)
	if !ok || !positiveIntPattern.MatchString(s) {
		return 0, invalid
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 1 {
		return 0, invalid
	}
	return int(n), nil
}
