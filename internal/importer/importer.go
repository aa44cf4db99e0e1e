// Package importer turns hand-written case lists into test cases built on a
// shared base request body.
package importer

import (
	"fmt"

	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
)

// Import parses data, a JSON array of entries shaped like
//
//	{"name": "...", "description": "...", "fields": {...}, "expectedResponse": {"status": 422}}
//
// and returns one test case per named entry. Each body is a copy of base with
// the entry's fields merged over the top level.
func Import(data []byte, base models.Value) ([]models.TestCase, error) {
	baseObj, ok := base.(*models.Object)
	if !ok {
		return nil, errors.NewImportError(
			fmt.Sprintf("base body is %s", models.KindOf(base)),
			errors.ErrBaseNotObject,
		)
	}

	ir, err := parser.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	entries, ok := ir.Root.(models.Array)
	if !ok {
		return nil, errors.NewImportError(
			fmt.Sprintf("import data is %s", models.KindOf(ir.Root)),
			errors.ErrNotArray,
		)
	}

	cases := make([]models.TestCase, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(*models.Object)
		if !ok {
			continue
		}
		tc, ok := fromEntry(obj, baseObj)
		if !ok {
			continue
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// ImportString is Import for string input.
func ImportString(data string, base models.Value) ([]models.TestCase, error) {
	return Import([]byte(data), base)
}

// fromEntry builds a case from one entry. Entries without a name are dropped.
func fromEntry(entry, base *models.Object) (models.TestCase, bool) {
	name := parser.StringField(entry, "name")
	if name == "" {
		return models.TestCase{}, false
	}

	return models.TestCase{
		Name:           name,
		Description:    parser.StringField(entry, "description"),
		Body:           Merge(base, entry),
		ExpectedStatus: expectedStatus(entry),
	}, true
}

// Merge returns a copy of base with the entry's "fields" object laid over its
// top level: existing keys are overwritten in place and new keys appended.
// A missing or non-object "fields" leaves the copy unchanged.
func Merge(base, entry *models.Object) *models.Object {
	body := models.Clone(base).(*models.Object)
	fields, ok := entry.Get("fields")
	if !ok {
		return body
	}
	overrides, ok := fields.(*models.Object)
	if !ok {
		return body
	}
	for k, v := range overrides.All() {
		body.Set(k, models.Clone(v))
	}
	return body
}

// expectedStatus reads expectedResponse.status. Zero means the entry does not
// assert a status.
func expectedStatus(entry *models.Object) int {
	resp, ok := entry.Get("expectedResponse")
	if !ok {
		return 0
	}
	respObj, ok := resp.(*models.Object)
	if !ok {
		return 0
	}
	status, ok := parser.IntField(respObj, "status")
	if !ok {
		return 0
	}
	return status
}
