// Package schema samples example request bodies from JSON Schema and OpenAPI
// component schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
)

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the first non-null type. A schema typed only as null
// returns "null".
func (st SchemaType) Primary() string {
	for _, t := range st.Types {
		if t != "null" {
			return t
		}
	}
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// Schema is the subset of JSON Schema and OpenAPI schema objects that
// influences a sampled body.
type Schema struct {
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type SchemaType `json:"type,omitempty"`

	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	MinItems *int `json:"minItems,omitempty"`

	// Raw JSON so samples keep key order and number text.
	Example  json.RawMessage   `json:"example,omitempty"`
	Default  json.RawMessage   `json:"default,omitempty"`
	Examples []json.RawMessage `json:"examples,omitempty"`
	Enum     []json.RawMessage `json:"enum,omitempty"`

	Nullable bool `json:"nullable,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"` // JSON Schema draft 2019-09+
	Components  *Components        `json:"components,omitempty"`
}

// Components is the OpenAPI components object. Only schemas are used.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// Sample values used for string formats.
const (
	SampleDateTime = "2023-01-01T12:00:00Z"
	SampleDate     = "2023-01-01"
	SampleUUID     = "123e4567-e89b-12d3-a456-426614174000"
	SampleEmail    = "user@example.com"
	SampleURI      = "https://example.com"
	SampleString   = "string value"
)

// Size limits on sampled bodies. minItems and minLength are honoured up to
// these values.
const (
	MaxSampleItems        = 16
	MaxSampleStringLength = 1024

	// MaxSampleElements bounds the array elements one Sampler produces,
	// counting the copies made for nested arrays. Past it arrays hold a
	// single item.
	MaxSampleElements = 1024
)

// Option configures a Sampler.
type Option func(*Sampler)

// RequiredOnly makes the sampler leave out properties not listed in required.
func RequiredOnly() Option {
	return func(s *Sampler) { s.requiredOnly = true }
}

// WithComponents adds OpenAPI component schemas for "#/components/schemas/"
// references, for schemas cut out of a larger document.
func WithComponents(c *Components) Option {
	return func(s *Sampler) {
		if c == nil {
			return
		}
		for name, def := range c.Schemas {
			s.components[name] = def
		}
	}
}

// Sampler builds one deterministic example value from a schema.
type Sampler struct {
	requiredOnly bool
	definitions  map[string]*Schema // definitions and $defs, merged
	components   map[string]*Schema
	resolving    map[string]bool // $refs on the current path, for cycle detection
	elements     int             // array elements produced so far
}

// NewSampler creates a sampler that resolves references against root.
func NewSampler(root *Schema, opts ...Option) *Sampler {
	s := &Sampler{
		definitions: make(map[string]*Schema),
		components:  make(map[string]*Schema),
		resolving:   make(map[string]bool),
	}
	if root != nil {
		for k, v := range root.Definitions {
			s.definitions[k] = v
		}
		for k, v := range root.Defs {
			s.definitions[k] = v
		}
		if root.Components != nil {
			for k, v := range root.Components.Schemas {
				s.components[k] = v
			}
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns an example value for schema. It fails only on a $ref
// that cannot be resolved.
func (s *Sampler) Sample(schema *Schema) (models.Value, error) {
	if schema == nil {
		return models.Null{}, nil
	}

	if schema.Ref != "" {
		return s.sampleRef(schema.Ref)
	}

	if v, ok, err := s.literal(schema); ok || err != nil {
		return v, err
	}

	if len(schema.AllOf) > 0 {
		merged, err := s.mergeAllOf(schema.AllOf)
		if err != nil {
			return nil, err
		}
		return s.Sample(merged)
	}

	switch inferType(schema) {
	case "object":
		return s.sampleObject(schema)
	case "array":
		return s.sampleArray(schema)
	case "string":
		return sampleString(schema), nil
	case "integer":
		return sampleNumber(schema, true), nil
	case "number":
		return sampleNumber(schema, false), nil
	case "boolean":
		return models.Bool(true), nil
	}

	if options := firstNonEmpty(schema.OneOf, schema.AnyOf); len(options) > 0 {
		return s.Sample(options[0])
	}
	return models.Null{}, nil
}

// literal returns a value the schema spells out: example, default,
// examples[0] or enum[0], in that order.
func (s *Sampler) literal(schema *Schema) (models.Value, bool, error) {
	candidates := []json.RawMessage{schema.Example, schema.Default}
	if len(schema.Examples) > 0 {
		candidates = append(candidates, schema.Examples[0])
	}
	if len(schema.Enum) > 0 {
		candidates = append(candidates, schema.Enum[0])
	}
	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		ir, err := parser.ParseBytes(raw)
		if err != nil {
			return nil, false, fmt.Errorf("invalid literal in schema: %w", err)
		}
		return ir.Root, true, nil
	}
	return nil, false, nil
}

func (s *Sampler) sampleRef(ref string) (models.Value, error) {
	if s.resolving[ref] {
		return models.Null{}, nil
	}
	def, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}

	s.resolving[ref] = true
	defer delete(s.resolving, ref)
	return s.Sample(def)
}

// lookup resolves local references like "#/definitions/User",
// "#/$defs/User" or "#/components/schemas/User".
func (s *Sampler) lookup(ref string) (*Schema, error) {
	var (
		table map[string]*Schema
		name  string
	)
	switch {
	case strings.HasPrefix(ref, "#/definitions/"):
		table, name = s.definitions, strings.TrimPrefix(ref, "#/definitions/")
	case strings.HasPrefix(ref, "#/$defs/"):
		table, name = s.definitions, strings.TrimPrefix(ref, "#/$defs/")
	case strings.HasPrefix(ref, "#/components/schemas/"):
		table, name = s.components, strings.TrimPrefix(ref, "#/components/schemas/")
	default:
		return nil, fmt.Errorf("external $ref not supported: %s", ref)
	}
	def, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("unresolved $ref: %s", ref)
	}
	return def, nil
}

func (s *Sampler) sampleObject(schema *Schema) (models.Value, error) {
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	// Sort property names for deterministic output
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := models.NewObject()
	for _, name := range names {
		if s.requiredOnly && !required[name] {
			continue
		}
		v, err := s.Sample(schema.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		obj.Set(name, v)
	}
	return obj, nil
}

func (s *Sampler) sampleArray(schema *Schema) (models.Value, error) {
	if schema.Items == nil {
		return models.Array{}, nil
	}
	n := 1
	if schema.MinItems != nil && *schema.MinItems > n {
		n = min(*schema.MinItems, MaxSampleItems)
	}

	before := s.elements
	item, err := s.Sample(schema.Items)
	if err != nil {
		return nil, fmt.Errorf("array items: %w", err)
	}

	// Every copy of item carries the elements sampled inside it.
	per := s.elements - before + 1
	if remaining := MaxSampleElements - before; n*per > remaining {
		n = max(1, remaining/per)
	}
	s.elements = before + n*per

	arr := make(models.Array, n)
	for i := range arr {
		arr[i] = models.Clone(item)
	}
	return arr, nil
}

func sampleString(schema *Schema) models.Value {
	switch schema.Format {
	case "date-time":
		return models.String(SampleDateTime)
	case "date":
		return models.String(SampleDate)
	case "uuid":
		return models.String(SampleUUID)
	case "email":
		return models.String(SampleEmail)
	case "uri", "url":
		return models.String(SampleURI)
	}

	out := SampleString
	if schema.MaxLength != nil && len(out) > *schema.MaxLength {
		out = out[:max(*schema.MaxLength, 0)]
	}
	if schema.MinLength != nil && len(out) < *schema.MinLength {
		out += strings.Repeat("x", min(*schema.MinLength, MaxSampleStringLength)-len(out))
	}
	return models.String(out)
}

// sampleNumber picks the floored midpoint of minimum and maximum, else
// whichever bound exists, else 42 for integers and 42.5 for numbers.
func sampleNumber(schema *Schema, integer bool) models.Value {
	var n float64
	switch {
	case schema.Minimum != nil && schema.Maximum != nil:
		n = math.Floor((*schema.Minimum + *schema.Maximum) / 2)
	case schema.Minimum != nil:
		n = *schema.Minimum
	case schema.Maximum != nil:
		n = *schema.Maximum
	case integer:
		n = 42
	default:
		n = 42.5
	}
	if integer {
		return models.Int(int64(math.Ceil(n)))
	}
	return models.Float(n)
}

func inferType(schema *Schema) string {
	if t := schema.Type.Primary(); t != "" {
		return t
	}
	switch {
	case len(schema.Properties) > 0:
		return "object"
	case schema.Items != nil:
		return "array"
	}
	return ""
}

// mergeAllOf merges multiple schemas from allOf into one object schema
func (s *Sampler) mergeAllOf(schemas []*Schema) (*Schema, error) {
	merged := &Schema{
		Properties: make(map[string]*Schema),
		Required:   make([]string, 0),
		Type:       SchemaType{Types: []string{"object"}},
	}

	for _, part := range schemas {
		resolved := part
		if part.Ref != "" {
			def, err := s.lookup(part.Ref)
			if err != nil {
				return nil, err
			}
			resolved = def
		}
		if len(resolved.AllOf) > 0 {
			nested, err := s.mergeAllOf(resolved.AllOf)
			if err != nil {
				return nil, err
			}
			resolved = nested
		}

		for k, v := range resolved.Properties {
			merged.Properties[k] = v
		}
		merged.Required = append(merged.Required, resolved.Required...)

		if merged.Title == "" && resolved.Title != "" {
			merged.Title = resolved.Title
		}
	}

	return merged, nil
}

func firstNonEmpty(lists ...[]*Schema) []*Schema {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

// SampleBody parses a schema document and samples its root. A full OpenAPI
// component set may accompany the schema under "components".
func SampleBody(data []byte, opts ...Option) (models.Value, error) {
	schema, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return NewSampler(schema, opts...).Sample(schema)
}
