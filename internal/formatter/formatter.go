// Package formatter renders test cases and run reports for output.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/casegen/internal/config"
	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/runner"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter renders test cases as JSON or YAML and run results as text
type Formatter struct {
	Indent int
}

// NewFormatter creates a new Formatter with two-space indentation
func NewFormatter() *Formatter {
	return &Formatter{Indent: 2}
}

// NewFormatterWithConfig creates a Formatter using the output settings in cfg
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	f := NewFormatter()
	if cfg != nil && cfg.Output.Indent > 0 {
		f.Indent = cfg.Output.Indent
	}
	return f
}

// FormatCases renders cases in the given format. Object keys keep the order
// they had in the sample body.
func (f *Formatter) FormatCases(cases []models.TestCase, format string) (string, error) {
	if cases == nil {
		cases = []models.TestCase{}
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return f.encodeJSON(cases)
	case FormatYAML, "yml":
		return f.encodeYAML(cases)
	default:
		return "", errors.NewOutputError(fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

func (f *Formatter) encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", f.indent()))
	if err := enc.Encode(v); err != nil {
		return "", errors.NewOutputError("failed to encode JSON", err)
	}
	return buf.String(), nil
}

func (f *Formatter) encodeYAML(cases []models.TestCase) (string, error) {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, tc := range cases {
		doc.Content = append(doc.Content, caseNode(tc))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(f.indent())
	if err := enc.Encode(doc); err != nil {
		return "", errors.NewOutputError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewOutputError("failed to encode YAML", err)
	}
	return buf.String(), nil
}

func (f *Formatter) indent() int {
	if f.Indent <= 0 {
		return 2
	}
	return f.Indent
}

func caseNode(tc models.TestCase) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	n.Content = append(n.Content,
		strNode("name"), strNode(tc.Name),
		strNode("description"), strNode(tc.Description),
		strNode("body"), valueNode(tc.Body),
		strNode("expectedStatus"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(tc.ExpectedStatus)},
	)
	return n
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// valueNode converts a JSON value into a YAML node tree.
func valueNode(v models.Value) *yaml.Node {
	switch val := v.(type) {
	case models.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(bool(val))}
	case models.Number:
		tag := "!!int"
		if strings.ContainsAny(string(val), ".eE") {
			tag = "!!float"
		}
		text := string(val)
		if text == "" {
			text = "0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	case models.String:
		return strNode(string(val))
	case models.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(val) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, elem := range val {
			n.Content = append(n.Content, valueNode(elem))
		}
		return n
	case *models.Object:
		if val == nil {
			return nullNode()
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if val.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for k, child := range val.All() {
			n.Content = append(n.Content, strNode(k), valueNode(child))
		}
		return n
	default:
		// Null, Undefined and nil
		return nullNode()
	}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// maxStemLength keeps file names well under the common 255 byte limit.
const maxStemLength = 200

// FileName returns the file name used for the i-th (zero based) case,
// e.g. "001_email_empty_value.json".
func FileName(i int, name string) string {
	stem := strcase.ToSnake(strings.TrimSpace(nonAlnum.ReplaceAllString(name, " ")))
	if len(stem) > maxStemLength {
		stem = strings.TrimRight(stem[:maxStemLength], "_")
	}
	if stem == "" {
		stem = "case"
	}
	return fmt.Sprintf("%03d_%s.json", i+1, stem)
}

// WriteCaseFiles writes one indented JSON file per case into dir, creating
// it if needed, and returns the paths written in case order.
func (f *Formatter) WriteCaseFiles(dir string, cases []models.TestCase) ([]string, error) {
	if dir == "" {
		return nil, errors.NewOutputError("output directory is empty", errors.ErrInvalidFilePath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to create %s", dir), err)
	}

	paths := make([]string, 0, len(cases))
	for i, tc := range cases {
		content, err := f.encodeJSON(tc)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(i, tc.Name))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, errors.NewOutputError(fmt.Sprintf("failed to write %s", path), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FormatReport renders run results as an aligned table followed by a
// summary line.
func (f *Formatter) FormatReport(results []models.RunResult) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tEXPECTED\tSTATUS\tRESULT\tDURATION")
	for _, res := range results {
		expected := "2xx"
		if res.ExpectedStatus != 0 {
			expected = fmt.Sprint(res.ExpectedStatus)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			res.Name,
			expected,
			res.StatusText(),
			outcome(res),
			res.Duration.Round(time.Millisecond),
		)
	}
	_ = tw.Flush()

	s := runner.Summarize(results)
	fmt.Fprintf(&buf, "\n%d cases: %d passed, %d failed, %d errored\n", s.Total, s.Passed, s.Failed, s.Errored)
	return buf.String()
}

func outcome(res models.RunResult) string {
	switch {
	case res.Status == 0:
		if res.Error != "" {
			return "ERROR (" + res.Error + ")"
		}
		return "ERROR"
	case res.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

// FormatRuns renders stored run headers, one per line.
func (f *Formatter) FormatRuns(runs []models.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMETHOD\tTARGET\tPASSED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\n",
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Method,
			run.Target,
			run.Passed,
			run.Total,
		)
	}
	_ = tw.Flush()
	return buf.String()
}
