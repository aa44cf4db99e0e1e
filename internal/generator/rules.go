package generator

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mcncl/casegen/internal/models"
)

// Variant is one invalid replacement for a field.
type Variant struct {
	// Label follows the field path in the case name: "<path> - <Label>".
	Label string
	// Description completes "Testing <path> with ...".
	Description string
	Value       models.Value
}

// labeled is a row of a fixed invalid-value table.
type labeled struct {
	label string
	value models.Value
}

func emptyArray() models.Value  { return models.Array{} }
func emptyObject() models.Value { return models.NewObject() }

// tableVariants turns a labeled table into variants named "<prefix> (<label>)".
func tableVariants(prefix string, rows []labeled) []Variant {
	out := make([]Variant, 0, len(rows))
	for _, row := range rows {
		out = append(out, Variant{
			Label:       prefix + " (" + row.label + ")",
			Description: strings.ToLower(prefix) + ": " + describeValue(row.value),
			Value:       row.value,
		})
	}
	return out
}

// describeValue renders v as compact JSON for descriptions.
func describeValue(v models.Value) string {
	b, err := json.Marshal(v)
	if err != nil {
		return models.KindOf(v).String()
	}
	return string(b)
}

// scalarVariants apply to string, number and boolean fields.
func scalarVariants() []Variant {
	return []Variant{
		{Label: "Empty Value", Description: "empty value", Value: models.String("")},
		{Label: "Null Value", Description: "null", Value: models.Null{}},
	}
}

var invalidBooleans = []labeled{
	{"Number 0", models.Int(0)},
	{"Number 1", models.Int(1)},
	{"Number 2", models.Int(2)},
	{"String 'true'", models.String("true")},
	{"String 'false'", models.String("false")},
	{"String 'yes'", models.String("yes")},
	{"String 'no'", models.String("no")},
	{"Empty Array", emptyArray()},
	{"Empty Object", emptyObject()},
}

func booleanVariants() []Variant {
	return append(scalarVariants(), tableVariants("Invalid Boolean", invalidBooleans)...)
}

// arrayVariants derive from the original array: its first element seeds the
// duplicate, oversize and mixed cases.
func arrayVariants(arr models.Array, maxLength int) []Variant {
	var first models.Value = models.Null{}
	hasFirst := len(arr) > 0
	if hasFirst {
		first = arr[0]
	}

	duplicate := models.Array{}
	if hasFirst {
		duplicate = models.Array{first, first}
	}

	oversize := make(models.Array, maxLength+1)
	for i := range oversize {
		oversize[i] = first
	}

	mixed := models.Array{models.Null{}, models.String(""), models.Int(123)}
	if hasFirst {
		mixed = append(models.Array{first}, mixed...)
	}

	return []Variant{
		{Label: "Empty Array", Description: "empty array", Value: models.Array{}},
		{Label: "Null Array", Description: "null", Value: models.Null{}},
		{Label: "Array with Undefined Element", Description: "an array containing undefined", Value: models.Array{models.Undefined{}}},
		{Label: "Array with Invalid Element Type", Description: "array containing invalid element types", Value: models.Array{models.String("string"), models.Int(123), models.Bool(true)}},
		{Label: "Array with Duplicate Elements", Description: "array containing duplicates", Value: duplicate},
		{Label: "Array Exceeding Max Length", Description: "array exceeding max length (" + strconv.Itoa(maxLength) + ")", Value: oversize},
		{Label: "Array with Mixed Valid and Invalid Elements", Description: "array containing mixed valid and invalid elements", Value: mixed},
	}
}

// objectVariants derive from the original object's keys.
func objectVariants(obj *models.Object, unknownField, unknownValue string) []Variant {
	withUnknown := models.Clone(obj).(*models.Object)
	withUnknown.Set(unknownField, models.String(unknownValue))

	nulls := models.NewObject()
	empties := models.NewObject()
	flipped := models.NewObject()
	for k, v := range obj.All() {
		nulls.Set(k, models.Null{})
		empties.Set(k, models.String(""))
		if models.KindOf(v) == models.KindString {
			flipped.Set(k, models.Int(123))
		} else {
			flipped.Set(k, models.String("invalid"))
		}
	}

	return []Variant{
		{Label: "Empty Object", Description: "empty object", Value: models.NewObject()},
		{Label: "Null Object", Description: "null", Value: models.Null{}},
		{Label: "Object with Missing Required Fields", Description: "object missing required fields", Value: models.NewObject()},
		{Label: "Object with Additional Unknown Fields", Description: "object containing unknown fields", Value: withUnknown},
		{Label: "Object with Null Fields", Description: "object having some fields set to null", Value: nulls},
		{Label: "Object with Empty String Fields", Description: "object having some fields set to empty strings", Value: empties},
		{Label: "Object with Incorrect Field Types", Description: "object having incorrect field types", Value: flipped},
	}
}

var invalidEmails = []labeled{
	{"No At Symbol", models.String("invalidemail")},
	{"No Domain", models.String("invalid@")},
	{"Special Chars", models.String("test!@example.com")},
	{"Double At", models.String("test@@example.com")},
	{"Long Local Part", models.String(strings.Repeat("a", 200) + "@example.com")},
	{"Empty", models.String("")},
	{"Null", models.Null{}},
	{"Space in Email", models.String("test @example.com")},
	{"No Username (Local Part)", models.String("@example.com")},
	{"Missing TLD", models.String("test@example")},
	{"Dot Starts Domain", models.String("test@.com")},
	{"Double Dot in Domain", models.String("test@example..com")},
	{"Unicode Characters", models.String("tést@example.com")},
	{"Backslash in Email", models.String(`test\@example.com`)},
	{"Email Starts with Dot", models.String(".test@example.com")},
	{"Email Ends with Dot", models.String("test.@example.com")},
	{"Trailing Space", models.String("test@example.com ")},
	{"Leading Space", models.String(" test@example.com")},
	{"Multiple Dots in Local Part", models.String("first..last@example.com")},
	{"Quoted Local Part (invalid here)", models.String(`"test"@example.com`)},
	{"Local Part is Dot", models.String(".@example.com")},
	{"Only @ and Domain", models.String("@example.com")},
	{"Numeric Domain Only", models.String("user@123")},
	{"Numeric Domain with TLD Missing", models.String("user@345")},
	{"Numeric Domain with Dot", models.String("user@123.456")},
	{"Domain is Just Numbers", models.String("user@9999999999")},
	{"Domain Starts With Number", models.String("user@1example.com")},
	{"Domain Ends With Number", models.String("user@example1.com")},
	{"Domain Only Numbers with TLD", models.String("user@123.com")},
	{"IP Address as Domain (Invalid)", models.String("user@192.168.1.1")},
	{"IP Address in Brackets (Valid)", models.String("user@[192.168.1.1]")},
	{"Domain Label with Underscore", models.String("user@exa_mple.com")},
}

var invalidUUIDs = []labeled{
	{"Empty String", models.String("")},
	{"Too Short", models.String("123")},
	{"Bad Format", models.String("bad-uuid")},
	{"Number Instead", models.Int(123)},
	{"Empty Array", emptyArray()},
	{"Empty Object", emptyObject()},
	{"Null", models.Null{}},
}

var invalidDates = []labeled{
	{"Empty String", models.String("")},
	{"Not a Date", models.String("not-a-date")},
	{"Invalid Format", models.String("32/13/2024")},
	{"Wrong Format", models.String("2024-13-01")},
	{"Number Instead", models.Int(12345)},
	{"Empty Array", emptyArray()},
	{"Empty Object", emptyObject()},
	{"Null", models.Null{}},
	{"Boolean True", models.Bool(true)},
	{"Boolean False", models.Bool(false)},
	{"Whitespace String", models.String("   ")},
	{"Invalid ISO Date", models.String("2024-02-30T00:00:00Z")},
}
