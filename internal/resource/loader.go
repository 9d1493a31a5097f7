package resource

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yml
var tablesFS embed.FS

type tableDoc struct {
	Table    string      `yaml:"table"`
	TieBreak tieBreakDoc `yaml:"tie_break"`
	Fields   []fieldDoc  `yaml:"fields"`
}

type tieBreakDoc struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

type fieldDoc struct {
	Name      string   `yaml:"name"`
	Column    string   `yaml:"column"`
	Type      string   `yaml:"type"`
	Operators []string `yaml:"operators"`
	Filter    bool     `yaml:"filter"`
	Sort      bool     `yaml:"sort"`
}

// Registry maps resource names to their field tables.
type Registry struct {
	resources map[string]*Resource
}

// Load reads the field tables compiled into the binary.
func Load() (*Registry, error) {
	sub, err := fs.Sub(tablesFS, "tables")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads every *.yml file at the root of fsys. The file name without its
// extension is the resource name. Any malformed or incomplete table fails the
// whole load.
func LoadFS(fsys fs.FS) (*Registry, error) {
	files, err := fs.Glob(fsys, "*.yml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no resource tables found")
	}

	reg := &Registry{resources: make(map[string]*Resource, len(files))}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		res, err := parseTable(name, data)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", file, err)
		}
		reg.resources[name] = res
		logger.Debug("resource_loaded", map[string]any{
			"resource": name,
			"table":    res.Table,
			"fields":   len(res.Fields),
		})
	}
	return reg, nil
}

func parseTable(name string, data []byte) (*Resource, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty YAML")
	}
	if err := validateNode(root.Content[0], ctxTable); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var doc tableDoc
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	fields := make([]query.FieldSpec, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		var ops query.OperatorSet
		if f.Operators != nil {
			ops = make(query.OperatorSet, 0, len(f.Operators))
			for _, op := range f.Operators {
				ops = append(ops, query.Operator(op))
			}
		}
		fields = append(fields, query.FieldSpec{
			Name:      f.Name,
			Column:    f.Column,
			Type:      query.FieldType(f.Type),
			Operators: ops,
			Filter:    f.Filter,
			Sort:      f.Sort,
		})
	}

	if err := validateTable(name, doc, fields); err != nil {
		return nil, err
	}

	tie := query.Order{
		Column:    columnOf(fields, doc.TieBreak.Field),
		Direction: query.Direction(strings.ToUpper(doc.TieBreak.Direction)),
	}
	return newResource(name, doc.Table, fields, tie), nil
}

func columnOf(fields []query.FieldSpec, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.Column
		}
	}
	return ""
}

// Get returns the table for name.
func (r *Registry) Get(name string) (*Resource, bool) {
	res, ok := r.resources[name]
	return res, ok
}

// MustGet is for resources the binary cannot run without.
func (r *Registry) MustGet(name string) *Resource {
	res, ok := r.resources[name]
	if !ok {
		panic("resource not registered: " + name)
	}
	return res
}

// Names lists the registered resources in alphabetical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.resources))
	for name := range r.resources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
