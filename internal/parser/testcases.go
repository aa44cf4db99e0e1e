package parser

import (
	"fmt"
	"strconv"

	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/models"
)

// ParseTestCasesFile reads a list of test cases, as written by
// `casegen generate`, from a file.
func ParseTestCasesFile(filePath string) ([]models.TestCase, error) {
	ir, err := ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return TestCasesFromValue(ir.Root)
}

// ParseTestCasesString reads a list of test cases from a JSON string.
func ParseTestCasesString(s string) ([]models.TestCase, error) {
	ir, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	return TestCasesFromValue(ir.Root)
}

// TestCasesFromValue converts a decoded document into test cases. The
// document is either an array of cases or an object with a "testCases" array.
func TestCasesFromValue(root models.Value) ([]models.TestCase, error) {
	if obj, ok := root.(*models.Object); ok {
		wrapped, found := obj.Get("testCases")
		if !found {
			return nil, errors.NewParsingError("expected an array of test cases or an object with a \"testCases\" array", errors.ErrNotArray)
		}
		root = wrapped
	}
	arr, ok := root.(models.Array)
	if !ok {
		return nil, errors.NewParsingError(fmt.Sprintf("expected an array of test cases, got %s", models.KindOf(root)), errors.ErrNotArray)
	}

	cases := make([]models.TestCase, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(*models.Object)
		if !ok {
			return nil, errors.NewParsingError(fmt.Sprintf("test case %d is %s, not an object", i, models.KindOf(item)), errors.ErrInvalidJSON)
		}
		tc := models.TestCase{Body: models.Null{}}
		tc.Name = StringField(obj, "name")
		tc.Description = StringField(obj, "description")
		if body, ok := obj.Get("body"); ok {
			tc.Body = body
		}
		if status, ok := IntField(obj, "expectedStatus"); ok {
			tc.ExpectedStatus = status
		}
		if tc.Name == "" {
			tc.Name = fmt.Sprintf("case %d", i+1)
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// StringField returns obj[key] when it is a string, otherwise "".
func StringField(obj *models.Object, key string) string {
	v, ok := obj.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(models.String)
	if !ok {
		return ""
	}
	return string(s)
}

// IntField returns obj[key] when it is an integral number.
func IntField(obj *models.Object, key string) (int, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(models.Number)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(string(n))
	if err != nil {
		f, ferr := strconv.ParseFloat(string(n), 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		i = int(f)
	}
	return i, true
}
