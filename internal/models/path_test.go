package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPath_String(t *testing.T) {
	tests := []struct {
		name     string
		path     FieldPath
		expected string
	}{
		{name: "empty", path: FieldPath{}, expected: ""},
		{name: "single key", path: FieldPath{}.Key("name"), expected: "name"},
		{name: "nested keys", path: FieldPath{}.Key("user").Key("address").Key("city"), expected: "user.address.city"},
		{name: "array element", path: FieldPath{}.Key("user").Key("emails").Index(0).Key("address"), expected: "user.emails[0].address"},
		{name: "root index", path: FieldPath{}.Index(2).Key("id"), expected: "[2].id"},
		{name: "nested indices", path: FieldPath{}.Key("grid").Index(1).Index(3), expected: "grid[1][3]"},
		{name: "dotted key", path: FieldPath{}.Key("a.b"), expected: `["a.b"]`},
		{name: "dotted key nested", path: FieldPath{}.Key("meta").Key("k8s.io/name").Key("v"), expected: `meta["k8s.io/name"].v`},
		{name: "bracket key", path: FieldPath{}.Key("tags[0]"), expected: `["tags[0]"]`},
		{name: "quote key", path: FieldPath{}.Key(`say "hi"`), expected: `["say \"hi\""]`},
		{name: "empty key", path: FieldPath{}.Key("x").Key(""), expected: `x[""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

func TestFieldPath_StringIsUnambiguous(t *testing.T) {
	paths := []FieldPath{
		FieldPath{}.Key("a.b"),
		FieldPath{}.Key("a").Key("b"),
		FieldPath{}.Key("a[0]"),
		FieldPath{}.Key("a").Index(0),
		FieldPath{}.Key("a").Key(""),
		FieldPath{}.Key("a."),
	}

	seen := map[string]bool{}
	for _, p := range paths {
		s := p.String()
		assert.False(t, seen[s], "duplicate rendering %q", s)
		seen[s] = true
	}
}

func TestFieldPath_SiblingsAreIndependent(t *testing.T) {
	parent := FieldPath{}.Key("a").Key("b")
	left := parent.Key("left")
	right := parent.Key("right")

	assert.Equal(t, "a.b.left", left.String())
	assert.Equal(t, "a.b.right", right.String())
	assert.Equal(t, "a.b", parent.String())
}

func TestFieldPath_LastKey(t *testing.T) {
	assert.Equal(t, "", FieldPath{}.LastKey())
	assert.Equal(t, "city", FieldPath{}.Key("addr").Key("city").LastKey())
	assert.Equal(t, "", FieldPath{}.Key("tags").Index(0).LastKey())
}

func TestSetPath_ReplacesWithoutMutating(t *testing.T) {
	root := MustFromAny(map[string]any{
		"user": map[string]any{"emails": []any{map[string]any{"address": "a@b.c"}}, "name": "n"},
	})
	before := marshal(t, root)

	path := FieldPath{}.Key("user").Key("emails").Index(0).Key("address")
	updated := SetPath(root, path, String("bad"))

	assert.Equal(t, before, marshal(t, root))
	assert.Equal(t, `{"user":{"emails":[{"address":"bad"}],"name":"n"}}`, marshal(t, updated))
}

func TestSetPath_ClonesReplacement(t *testing.T) {
	root := MustFromAny(map[string]any{"meta": "x"})
	replacement := NewObject()
	replacement.Set("k", Int(1))

	updated := SetPath(root, FieldPath{}.Key("meta"), replacement)
	replacement.Set("k", Int(2))

	assert.Equal(t, `{"meta":{"k":1}}`, marshal(t, updated))
}

func TestSetPath_EmptyPathReplacesRoot(t *testing.T) {
	root := MustFromAny(map[string]any{"a": 1})
	updated := SetPath(root, FieldPath{}, String("whole"))
	assert.Equal(t, String("whole"), updated)
}

func TestSetPath_CreatesMissingLocations(t *testing.T) {
	tests := []struct {
		name     string
		root     Value
		path     FieldPath
		expected string
	}{
		{
			name:     "missing intermediate object",
			root:     MustFromAny(map[string]any{}),
			path:     FieldPath{}.Key("a").Key("b"),
			expected: `{"a":{"b":true}}`,
		},
		{
			name:     "scalar replaced by object",
			root:     MustFromAny(map[string]any{"a": "text"}),
			path:     FieldPath{}.Key("a").Key("b"),
			expected: `{"a":{"b":true}}`,
		},
		{
			name:     "index on object uses decimal key",
			root:     MustFromAny(map[string]any{"a": map[string]any{}}),
			path:     FieldPath{}.Key("a").Index(2),
			expected: `{"a":{"2":true}}`,
		},
		{
			name:     "index past end pads with null",
			root:     MustFromAny(map[string]any{"a": []any{1}}),
			path:     FieldPath{}.Key("a").Index(3),
			expected: `{"a":[1,null,null,true]}`,
		},
		{
			name:     "array root",
			root:     MustFromAny([]any{"x", "y"}),
			path:     FieldPath{}.Index(1),
			expected: `["x",true]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := SetPath(tt.root, tt.path, Bool(true))
			require.NotNil(t, updated)
			assert.Equal(t, tt.expected, marshal(t, updated))
		})
	}
}

func TestTestCase_MarshalJSON(t *testing.T) {
	tc := TestCase{Name: "n", Description: "d", ExpectedStatus: DefaultExpectedStatus}
	assert.Equal(t, `{"name":"n","description":"d","body":null,"expectedStatus":400}`, marshal(t, tc))

	tc.Body = MustFromAny(map[string]any{"a": 1})
	assert.Equal(t, `{"name":"n","description":"d","body":{"a":1},"expectedStatus":400}`, marshal(t, tc))
}

func TestRunResult_StatusText(t *testing.T) {
	assert.Equal(t, "error", RunResult{}.StatusText())
	assert.Equal(t, "422", RunResult{Status: 422}.StatusText())
}
