package generator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcncl/casegen/internal/config"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseRoot parses a JSON literal, keeping key order.
func parseRoot(t *testing.T, jsonInput string) models.Value {
	t.Helper()
	ir, err := parser.ParseString(jsonInput)
	require.NoError(t, err)
	return ir.Root
}

// findCase returns the case with the given name or fails the test.
func findCase(t *testing.T, cases []models.TestCase, name string) models.TestCase {
	t.Helper()
	for _, tc := range cases {
		if tc.Name == name {
			return tc
		}
	}
	require.Failf(t, "case not found", "no test case named %q", name)
	return models.TestCase{}
}

// at walks a body by object keys.
func at(t *testing.T, v models.Value, keys ...string) models.Value {
	t.Helper()
	for _, k := range keys {
		obj, ok := v.(*models.Object)
		require.True(t, ok, "expected object while resolving %q, got %s", k, models.KindOf(v))
		v, ok = obj.Get(k)
		require.True(t, ok, "missing key %q", k)
	}
	return v
}

func names(cases []models.TestCase) []string {
	out := make([]string, len(cases))
	for i, tc := range cases {
		out[i] = tc.Name
	}
	return out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestGenerate_FlatObject(t *testing.T) {
	root := parseRoot(t, `{"name": "Alice", "active": true}`)
	cases := Generate(root)

	expected := []string{
		"name - Empty Value",
		"name - Null Value",
		"active - Empty Value",
		"active - Null Value",
		"active - Invalid Boolean (Number 0)",
		"active - Invalid Boolean (Number 1)",
		"active - Invalid Boolean (Number 2)",
		"active - Invalid Boolean (String 'true')",
		"active - Invalid Boolean (String 'false')",
		"active - Invalid Boolean (String 'yes')",
		"active - Invalid Boolean (String 'no')",
		"active - Invalid Boolean (Empty Array)",
		"active - Invalid Boolean (Empty Object)",
	}
	assert.Equal(t, expected, names(cases))

	assert.Equal(t, models.String(""), at(t, findCase(t, cases, "name - Empty Value").Body, "name"))
	assert.Equal(t, models.Null{}, at(t, findCase(t, cases, "name - Null Value").Body, "name"))
	assert.Equal(t, models.String(""), at(t, findCase(t, cases, "active - Empty Value").Body, "active"))
	assert.Equal(t, models.Null{}, at(t, findCase(t, cases, "active - Null Value").Body, "active"))
	assert.Equal(t, models.String("yes"), at(t, findCase(t, cases, "active - Invalid Boolean (String 'yes')").Body, "active"))

	for _, tc := range cases {
		if strings.HasPrefix(tc.Name, "name") {
			assert.Equal(t, models.Bool(true), at(t, tc.Body, "active"), tc.Name)
		} else {
			assert.Equal(t, models.String("Alice"), at(t, tc.Body, "name"), tc.Name)
		}
	}
}

func TestGenerate_ExpectedStatusAndDescriptions(t *testing.T) {
	root := parseRoot(t, `{"name": "Alice", "tags": ["a"], "profile": {"bio": "x"}, "active": false}`)
	cases := Generate(root)
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		assert.Equal(t, 400, tc.ExpectedStatus, tc.Name)
		assert.NotEmpty(t, tc.Description, tc.Name)
	}

	assert.Equal(t, "Testing name with empty value", findCase(t, cases, "name - Empty Value").Description)
	assert.Equal(t, "Testing active with invalid boolean: \"no\"", findCase(t, cases, "active - Invalid Boolean (String 'no')").Description)
	assert.Equal(t, "Testing tags with array exceeding max length (100)", findCase(t, cases, "tags - Array Exceeding Max Length").Description)
}

func TestGenerate_NamesAreUnique(t *testing.T) {
	root := parseRoot(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"email": "a@b.com",
		"birthDate": "1990-05-01",
		"flags": [true, false],
		"contacts": [{"email": "x@y.z", "createdDate": "2024-01-01T10:00:00Z"}],
		"meta": {"enabled": true, "count": 3}
	}`)
	cases := Generate(root)

	seen := make(map[string]bool, len(cases))
	for _, tc := range cases {
		assert.False(t, seen[tc.Name], "duplicate case name %q", tc.Name)
		seen[tc.Name] = true
	}
}

func TestGenerate_DottedKeysDoNotCollide(t *testing.T) {
	cases := Generate(parseRoot(t, `{"a.b": "x", "a": {"b": "y"}}`))

	seen := make(map[string]bool, len(cases))
	for _, tc := range cases {
		assert.False(t, seen[tc.Name], "duplicate case name %q", tc.Name)
		seen[tc.Name] = true
	}

	tc := findCase(t, cases, `["a.b"] - Empty Value`)
	assert.Equal(t, models.String(""), at(t, tc.Body, "a.b"))
	assert.Equal(t, models.String("y"), at(t, tc.Body, "a", "b"))

	tc = findCase(t, cases, "a.b - Empty Value")
	assert.Equal(t, models.String("x"), at(t, tc.Body, "a.b"))
	assert.Equal(t, models.String(""), at(t, tc.Body, "a", "b"))
}

func TestGenerate_NumberField(t *testing.T) {
	cases := Generate(parseRoot(t, `{"age": 30}`))

	assert.Equal(t, []string{"age - Empty Value", "age - Null Value"}, names(cases))
	assert.Equal(t, models.String(""), at(t, cases[0].Body, "age"))
}

func TestGenerate_EmailTrigger(t *testing.T) {
	cases := Generate(parseRoot(t, `{"userEmail": "a@b.com"}`))

	tc := findCase(t, cases, "userEmail - Invalid Email (No At Symbol)")
	assert.Equal(t, models.String("invalidemail"), at(t, tc.Body, "userEmail"))
	assert.Equal(t, 400, tc.ExpectedStatus)

	// 2 string cases followed by the full email table
	require.Len(t, cases, 2+len(invalidEmails))
	assert.Equal(t, "userEmail - Empty Value", cases[0].Name)
	assert.Equal(t, "userEmail - Invalid Email (No At Symbol)", cases[2].Name)
}

func TestGenerate_EmailTableCoverage(t *testing.T) {
	assert.GreaterOrEqual(t, len(invalidEmails), 30)

	labels := make(map[string]bool)
	for _, row := range invalidEmails {
		labels[row.label] = true
	}
	// syntax, whitespace and numeric-domain categories
	for _, label := range []string{"Double At", "Missing TLD", "Space in Email", "Leading Space", "Trailing Space", "Numeric Domain Only", "IP Address as Domain (Invalid)"} {
		assert.True(t, labels[label], "missing email variant %q", label)
	}
}

func TestGenerate_EmailTriggerIgnoresValueType(t *testing.T) {
	cases := Generate(parseRoot(t, `{"mailbox": null}`))

	require.Len(t, cases, len(invalidEmails))
	assert.Equal(t, "mailbox - Invalid Email (No At Symbol)", cases[0].Name)
}

func TestGenerate_EmailTriggerCaseInsensitive(t *testing.T) {
	cases := Generate(parseRoot(t, `{"PrimaryEMAIL": "a@b.com"}`))
	findCase(t, cases, "PrimaryEMAIL - Invalid Email (Double At)")
}

func TestGenerate_UUIDTrigger(t *testing.T) {
	cases := Generate(parseRoot(t, `{"id": "123e4567-e89b-12d3-a456-426614174000"}`))

	tc := findCase(t, cases, "id - Invalid UUID (Bad Format)")
	assert.Equal(t, models.String("bad-uuid"), at(t, tc.Body, "id"))
	require.Len(t, cases, 2+7)

	assert.Equal(t, models.Int(123), at(t, findCase(t, cases, "id - Invalid UUID (Number Instead)").Body, "id"))
	assert.Equal(t, models.Null{}, at(t, findCase(t, cases, "id - Invalid UUID (Null)").Body, "id"))
}

func TestGenerate_UUIDTriggerRequiresCanonicalForm(t *testing.T) {
	// version nibble 0 and variant nibble c are outside the canonical form
	for _, value := range []string{
		"123e4567-e89b-02d3-a456-426614174000",
		"123e4567-e89b-12d3-c456-426614174000",
		"123e4567e89b12d3a456426614174000",
	} {
		cases := Generate(models.MustFromAny(map[string]any{"id": value}))
		assert.Len(t, cases, 2, value)
	}
}

func TestGenerate_DateTrigger(t *testing.T) {
	cases := Generate(parseRoot(t, `{"startDate": "2024-01-01"}`))

	tc := findCase(t, cases, "startDate - Invalid Date (Invalid ISO Date)")
	assert.Equal(t, models.String("2024-02-30T00:00:00Z"), at(t, tc.Body, "startDate"))
	require.Len(t, cases, 2+12)

	assert.Equal(t, models.Bool(false), at(t, findCase(t, cases, "startDate - Invalid Date (Boolean False)").Body, "startDate"))
	assert.Equal(t, models.String("   "), at(t, findCase(t, cases, "startDate - Invalid Date (Whitespace String)").Body, "startDate"))
}

func TestGenerate_DateTriggerNeedsKeyAndValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{name: "date-time value", input: `{"updateDate": "2024-01-01T10:20:30.123+02:00"}`, count: 14},
		{name: "key without date", input: `{"start": "2024-01-01"}`, count: 2},
		{name: "date key, non-ISO value", input: `{"dueDate": "01/02/2024"}`, count: 2},
		{name: "date key, non-string value", input: `{"dueDate": 20240101}`, count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := Generate(parseRoot(t, tt.input))
			assert.Len(t, cases, tt.count)
		})
	}
}

func TestGenerate_DomainRuleOrder(t *testing.T) {
	// Key matches both email and date; email runs first.
	cases := Generate(parseRoot(t, `{"mailDate": "2024-01-01"}`))

	require.Len(t, cases, 2+len(invalidEmails)+len(invalidDates))
	assert.Equal(t, "mailDate - Null Value", cases[1].Name)
	assert.Equal(t, "mailDate - Invalid Email (No At Symbol)", cases[2].Name)
	assert.Equal(t, "mailDate - Invalid Date (Empty String)", cases[2+len(invalidEmails)].Name)
}

func TestGenerate_ContainerDomainCasesFollowChildren(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		field      string
		typeCases  int
		childCases int
	}{
		{
			name:       "array of objects",
			input:      `{"emails": [{"address": "a@b.com"}]}`,
			field:      "emails",
			typeCases:  7,
			childCases: 2,
		},
		{
			name:       "object",
			input:      `{"mailing": {"city": "X"}}`,
			field:      "mailing",
			typeCases:  7,
			childCases: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := Generate(parseRoot(t, tt.input))
			require.Len(t, cases, tt.typeCases+tt.childCases+len(invalidEmails))

			for _, name := range names(cases[:tt.typeCases]) {
				assert.True(t, strings.HasPrefix(name, tt.field+" - "), name)
			}
			for _, name := range names(cases[tt.typeCases : tt.typeCases+tt.childCases]) {
				assert.False(t, strings.HasPrefix(name, tt.field+" - "), name)
			}
			assert.Equal(t, tt.field+" - Invalid Email (No At Symbol)", cases[tt.typeCases+tt.childCases].Name)
		})
	}
}

func TestGenerate_NestedObject(t *testing.T) {
	cases := Generate(parseRoot(t, `{"address": {"city": "X"}}`))

	expected := []string{
		"address - Empty Object",
		"address - Null Object",
		"address - Object with Missing Required Fields",
		"address - Object with Additional Unknown Fields",
		"address - Object with Null Fields",
		"address - Object with Empty String Fields",
		"address - Object with Incorrect Field Types",
		"address.city - Empty Value",
		"address.city - Null Value",
	}
	assert.Equal(t, expected, names(cases))

	assert.Equal(t, 0, at(t, findCase(t, cases, "address - Empty Object").Body, "address").(*models.Object).Len())
	assert.Equal(t, models.String(""), at(t, findCase(t, cases, "address.city - Empty Value").Body, "address", "city"))
}

func TestGenerate_ObjectVariants(t *testing.T) {
	cases := Generate(parseRoot(t, `{"address": {"city": "X", "zip": 12345, "geo": {"lat": 1}}}`))

	unknown := findCase(t, cases, "address - Object with Additional Unknown Fields").Body
	assert.Equal(t, `{"address":{"city":"X","zip":12345,"geo":{"lat":1},"unknownField":"unexpected"}}`, mustJSON(t, unknown))

	nulls := findCase(t, cases, "address - Object with Null Fields").Body
	assert.Equal(t, `{"address":{"city":null,"zip":null,"geo":null}}`, mustJSON(t, nulls))

	empties := findCase(t, cases, "address - Object with Empty String Fields").Body
	assert.Equal(t, `{"address":{"city":"","zip":"","geo":""}}`, mustJSON(t, empties))

	flipped := findCase(t, cases, "address - Object with Incorrect Field Types").Body
	assert.Equal(t, `{"address":{"city":123,"zip":"invalid","geo":"invalid"}}`, mustJSON(t, flipped))

	// Nested objects recurse again
	findCase(t, cases, "address.geo - Empty Object")
	findCase(t, cases, "address.geo.lat - Null Value")
}

func TestGenerate_ArrayVariants(t *testing.T) {
	cases := Generate(parseRoot(t, `{"tags": ["a", "b"]}`))

	expected := []string{
		"tags - Empty Array",
		"tags - Null Array",
		"tags - Array with Undefined Element",
		"tags - Array with Invalid Element Type",
		"tags - Array with Duplicate Elements",
		"tags - Array Exceeding Max Length",
		"tags - Array with Mixed Valid and Invalid Elements",
	}
	assert.Equal(t, expected, names(cases))

	assert.Equal(t, `{"tags":[]}`, mustJSON(t, cases[0].Body))
	assert.Equal(t, `{"tags":null}`, mustJSON(t, cases[1].Body))
	assert.Equal(t, models.Array{models.Undefined{}}, at(t, cases[2].Body, "tags"))
	assert.Equal(t, `{"tags":[null]}`, mustJSON(t, cases[2].Body))
	assert.Equal(t, `{"tags":["string",123,true]}`, mustJSON(t, cases[3].Body))
	assert.Equal(t, `{"tags":["a","a"]}`, mustJSON(t, cases[4].Body))
	assert.Len(t, at(t, cases[5].Body, "tags").(models.Array), 101)
	assert.Equal(t, `{"tags":["a",null,"",123]}`, mustJSON(t, cases[6].Body))
}

func TestGenerate_EmptyArray(t *testing.T) {
	cases := Generate(parseRoot(t, `{"tags": []}`))
	require.Len(t, cases, 7)

	assert.Equal(t, `{"tags":[]}`, mustJSON(t, findCase(t, cases, "tags - Array with Duplicate Elements").Body))
	assert.Equal(t, `{"tags":[null,"",123]}`, mustJSON(t, findCase(t, cases, "tags - Array with Mixed Valid and Invalid Elements").Body))

	oversize := at(t, findCase(t, cases, "tags - Array Exceeding Max Length").Body, "tags").(models.Array)
	require.Len(t, oversize, 101)
	for _, elem := range oversize {
		assert.Equal(t, models.KindNull, models.KindOf(elem))
	}
}

func TestGenerate_ArrayOfObjects(t *testing.T) {
	cases := Generate(parseRoot(t, `{"items": [{"sku": "A1"}, {"sku": "B2", "qty": 2}]}`))

	findCase(t, cases, "items - Empty Array")
	tc := findCase(t, cases, "items[0].sku - Empty Value")
	assert.Equal(t, `{"items":[{"sku":""},{"sku":"B2","qty":2}]}`, mustJSON(t, tc.Body))

	tc = findCase(t, cases, "items[1].qty - Null Value")
	assert.Equal(t, `{"items":[{"sku":"A1"},{"sku":"B2","qty":null}]}`, mustJSON(t, tc.Body))

	// Elements themselves get no object-level cases
	for _, tc := range cases {
		assert.NotContains(t, tc.Name, "items[0] - ")
	}
}

func TestGenerate_ArrayOfMixedElements(t *testing.T) {
	cases := Generate(parseRoot(t, `{"things": ["x", {"id": 1}, 3]}`))

	findCase(t, cases, "things[1].id - Empty Value")
	for _, tc := range cases {
		assert.NotContains(t, tc.Name, "things[0].")
		assert.NotContains(t, tc.Name, "things[2].")
	}
}

func TestGenerate_DocumentOrder(t *testing.T) {
	cases := Generate(parseRoot(t, `{"z": 1, "a": {"m": true}, "b": "x"}`))

	var fieldOrder []string
	for _, tc := range cases {
		field, _, found := strings.Cut(tc.Name, " - ")
		require.True(t, found, tc.Name)
		if len(fieldOrder) == 0 || fieldOrder[len(fieldOrder)-1] != field {
			fieldOrder = append(fieldOrder, field)
		}
	}
	assert.Equal(t, []string{"z", "a", "a.m", "b"}, fieldOrder)
}

func TestGenerate_NullFieldProducesNothing(t *testing.T) {
	cases := Generate(parseRoot(t, `{"deletedAt": null}`))
	assert.Empty(t, cases)
	assert.NotNil(t, cases)
}

func TestGenerate_NonObjectRoots(t *testing.T) {
	for _, input := range []string{`"just a string"`, `42`, `true`, `null`, `{}`, `[]`} {
		t.Run(input, func(t *testing.T) {
			cases := Generate(parseRoot(t, input))
			assert.Empty(t, cases)
		})
	}
}

func TestGenerate_ArrayRoot(t *testing.T) {
	cases := Generate(parseRoot(t, `[{"email": "a@b.com"}, "plain"]`))

	tc := findCase(t, cases, "[0] - Empty Object")
	assert.Equal(t, `[{},"plain"]`, mustJSON(t, tc.Body))

	tc = findCase(t, cases, "[0].email - Invalid Email (No At Symbol)")
	assert.Equal(t, `[{"email":"invalidemail"},"plain"]`, mustJSON(t, tc.Body))

	tc = findCase(t, cases, "[1] - Null Value")
	assert.Equal(t, `[{"email":"a@b.com"},null]`, mustJSON(t, tc.Body))
}

func TestGenerate_DoesNotMutateRoot(t *testing.T) {
	input := `{"user": {"email": "a@b.com", "roles": ["admin"], "created": {"createdDate": "2024-01-01"}}, "ok": true}`
	root := parseRoot(t, input)
	before := mustJSON(t, root)

	cases := Generate(root)
	require.NotEmpty(t, cases)

	assert.Equal(t, before, mustJSON(t, root))
}

func TestGenerate_BodiesAreIndependent(t *testing.T) {
	root := parseRoot(t, `{"user": {"name": "a", "tags": [{"k": "v"}]}}`)
	cases := Generate(root)
	require.Greater(t, len(cases), 2)

	snapshot := make([]string, len(cases))
	for i, tc := range cases {
		snapshot[i] = mustJSON(t, tc.Body)
	}

	// Scribble over every nested object reachable from the first body.
	var scribble func(v models.Value)
	scribble = func(v models.Value) {
		switch val := v.(type) {
		case *models.Object:
			for _, k := range val.Keys() {
				child, _ := val.Get(k)
				scribble(child)
				val.Set(k, models.String("scribbled"))
			}
		case models.Array:
			for i := range val {
				scribble(val[i])
				val[i] = models.String("scribbled")
			}
		}
	}
	scribble(cases[0].Body)

	for i := 1; i < len(cases); i++ {
		assert.Equal(t, snapshot[i], mustJSON(t, cases[i].Body), cases[i].Name)
	}
	assert.Equal(t, `{"user":{"name":"a","tags":[{"k":"v"}]}}`, mustJSON(t, root))
}

func TestGenerate_OversizeArrayElementsAreIndependent(t *testing.T) {
	cases := Generate(parseRoot(t, `{"items": [{"sku": "A1"}]}`))
	oversize := at(t, findCase(t, cases, "items - Array Exceeding Max Length").Body, "items").(models.Array)
	require.Len(t, oversize, 101)

	oversize[0].(*models.Object).Set("sku", models.String("changed"))
	assert.Equal(t, models.String("A1"), at(t, oversize[1], "sku"))
}

func TestGenerate_Deterministic(t *testing.T) {
	input := `{"id": "123e4567-e89b-12d3-a456-426614174000", "email": "a@b.com", "items": [{"sku": "A1"}], "active": true}`
	first := Generate(parseRoot(t, input))
	second := Generate(parseRoot(t, input))

	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
}

func TestGeneratorWithConfig_DisabledRules(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules.Email.Enabled = false
	cfg.Rules.UUID.Enabled = false
	cfg.Rules.Date.Enabled = false

	cases := NewGeneratorWithConfig(cfg).Generate(parseRoot(t, `{"email": "a@b.com", "id": "123e4567-e89b-12d3-a456-426614174000", "startDate": "2024-01-01"}`))
	assert.Len(t, cases, 6)
}

func TestGeneratorWithConfig_CustomPatterns(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules.Email.KeyPattern = `(?i)^contact$`
	cfg.Rules.Date.KeyPattern = `_at$`
	require.NoError(t, cfg.Validate())

	cases := NewGeneratorWithConfig(cfg).Generate(parseRoot(t, `{"contact": "a@b.com", "email": "x", "created_at": "2024-01-01T00:00:00Z"}`))

	findCase(t, cases, "contact - Invalid Email (No At Symbol)")
	findCase(t, cases, "created_at - Invalid Date (Not a Date)")
	for _, tc := range cases {
		assert.NotContains(t, tc.Name, "email - Invalid Email")
	}
}

func TestGeneratorWithConfig_ArrayAndObjectSettings(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Arrays.MaxLength = 5
	cfg.Objects.UnknownField = "__extra"
	cfg.Objects.UnknownValue = "boom"

	cases := NewGeneratorWithConfig(cfg).Generate(parseRoot(t, `{"tags": ["a"], "meta": {"k": 1}}`))

	assert.Len(t, at(t, findCase(t, cases, "tags - Array Exceeding Max Length").Body, "tags").(models.Array), 6)
	assert.Equal(t, `{"tags":["a"],"meta":{"k":1,"__extra":"boom"}}`, mustJSON(t, findCase(t, cases, "meta - Object with Additional Unknown Fields").Body))
}

func TestGeneratorWithConfig_SkipFields(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SkipFields = []string{"meta", "items[0].sku"}

	cases := NewGeneratorWithConfig(cfg).Generate(parseRoot(t, `{"name": "a", "meta": {"k": 1}, "items": [{"sku": "A1", "qty": 1}]}`))

	for _, tc := range cases {
		assert.NotContains(t, tc.Name, "meta")
		assert.NotContains(t, tc.Name, "items[0].sku")
	}
	findCase(t, cases, "items[0].qty - Empty Value")
	findCase(t, cases, "name - Null Value")
}

func TestGenerator_WithDomainRule(t *testing.T) {
	phone := DomainRule{
		Name:   "phone",
		Prefix: "Invalid Phone",
		Applies: func(key string, value models.Value) bool {
			_, ok := value.(models.String)
			return ok && key == "phone"
		},
		Variants: tableVariants("Invalid Phone", []labeled{
			{"Letters", models.String("abc")},
			{"Too Long", models.String("+1234567890123456789")},
		}),
	}

	base := NewGenerator()
	gen := base.WithDomainRule(phone)
	cases := gen.Generate(parseRoot(t, `{"phone": "+15551234"}`))

	assert.Equal(t, []string{
		"phone - Empty Value",
		"phone - Null Value",
		"phone - Invalid Phone (Letters)",
		"phone - Invalid Phone (Too Long)",
	}, names(cases))

	// The base generator is unchanged
	assert.Len(t, base.DomainRules(), 3)
	assert.Len(t, gen.DomainRules(), 4)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsUUID("123e4567-e89b-12d3-a456-426614174000"))
	assert.True(t, IsUUID("123E4567-E89B-42D3-B456-426614174000"))
	assert.False(t, IsUUID("bad-uuid"))
	assert.False(t, IsUUID(""))

	assert.True(t, IsISODate("2024-01-01"))
	assert.True(t, IsISODate("2024-01-01T10:20:30Z"))
	assert.True(t, IsISODate("2024-01-01T10:20:30.5+05:30"))
	assert.True(t, IsISODate("2024-02-30"), "shape only, calendar not checked")
	assert.False(t, IsISODate("2024-1-1"))
	assert.False(t, IsISODate("01/01/2024"))
	assert.False(t, IsISODate("2024-01-01 10:20:30"))
}
