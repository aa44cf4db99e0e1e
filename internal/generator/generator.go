// Package generator synthesizes negative request-body test cases from one
// example JSON body. Every field of the body is visited in document order and
// replaced, one at a time, with values an input validator should reject.
package generator

import (
	"fmt"

	"github.com/mcncl/casegen/internal/config"
	"github.com/mcncl/casegen/internal/models"
)

// Generator produces test cases from a sample body. It holds no per-run
// state and is safe for concurrent use.
type Generator struct {
	config      *config.Config
	domainRules []DomainRule
}

// NewGenerator creates a Generator with the default configuration.
func NewGenerator() *Generator {
	return NewGeneratorWithConfig(config.NewConfig())
}

// NewGeneratorWithConfig creates a Generator with custom configuration.
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{
		config:      cfg,
		domainRules: defaultDomainRules(cfg),
	}
}

// WithDomainRule returns a copy of g with an extra domain rule run after the
// built-in ones.
func (g *Generator) WithDomainRule(rule DomainRule) *Generator {
	rules := make([]DomainRule, len(g.domainRules), len(g.domainRules)+1)
	copy(rules, g.domainRules)
	return &Generator{
		config:      g.config,
		domainRules: append(rules, rule),
	}
}

// DomainRules returns the domain rules in the order they run.
func (g *Generator) DomainRules() []DomainRule {
	out := make([]DomainRule, len(g.domainRules))
	copy(out, g.domainRules)
	return out
}

// Generate returns the test cases for root using the default configuration.
func Generate(root models.Value) []models.TestCase {
	return NewGenerator().Generate(root)
}

// Generate walks root and returns one test case per (field, invalid value)
// pair. root is never modified and every case body is an independent copy.
//
// An object root has its fields visited. An array root has each element
// treated as a top-level field addressed by its index. Any other root yields
// no cases.
func (g *Generator) Generate(root models.Value) []models.TestCase {
	w := &walker{gen: g, root: root, cases: []models.TestCase{}}

	switch r := root.(type) {
	case *models.Object:
		w.walkObject(r, models.FieldPath{})
	case models.Array:
		for i, elem := range r {
			w.visitField(models.FieldPath{}.Index(i), "", elem)
		}
	}
	return w.cases
}

// walker carries the state of one Generate call.
type walker struct {
	gen   *Generator
	root  models.Value
	cases []models.TestCase
}

func (w *walker) walkObject(obj *models.Object, parent models.FieldPath) {
	for key, value := range obj.All() {
		w.visitField(parent.Key(key), key, value)
	}
}

// visitField emits the field's type cases, descends into its children, then
// emits its domain cases.
func (w *walker) visitField(path models.FieldPath, key string, value models.Value) {
	cfg := w.gen.config
	if cfg.ShouldSkipField(path.String()) {
		return
	}

	switch v := value.(type) {
	case models.String, models.Number:
		w.emit(path, scalarVariants())
	case models.Bool:
		w.emit(path, booleanVariants())
	case models.Array:
		w.emit(path, arrayVariants(v, cfg.Arrays.MaxLength))
	case *models.Object:
		w.emit(path, objectVariants(v, cfg.Objects.UnknownField, cfg.Objects.UnknownValue))
	case models.Null, models.Undefined, nil:
		// null is opaque: no type cases, no recursion
	}

	switch v := value.(type) {
	case models.Array:
		for i, elem := range v {
			if obj, ok := elem.(*models.Object); ok {
				w.walkObject(obj, path.Index(i))
			}
		}
	case *models.Object:
		w.walkObject(v, path)
	}

	// Domain cases for a container come after its children's cases.
	for _, rule := range w.gen.domainRules {
		if rule.Applies(key, value) {
			w.emit(path, rule.Variants)
		}
	}
}

func (w *walker) emit(path models.FieldPath, variants []Variant) {
	name := path.String()
	for _, variant := range variants {
		w.cases = append(w.cases, models.TestCase{
			Name:           fmt.Sprintf("%s - %s", name, variant.Label),
			Description:    fmt.Sprintf("Testing %s with %s", name, variant.Description),
			Body:           models.SetPath(w.root, path, variant.Value),
			ExpectedStatus: models.DefaultExpectedStatus,
		})
	}
}
