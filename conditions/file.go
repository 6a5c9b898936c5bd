package conditions

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Position is a 1-based line and column inside a filter document.
type Position struct {
	Line   int
	Column int
}

// Document is one filter read from YAML, together with the position of the
// first character of its formula text (zero when there is no formula) and
// of each condition.
type Document struct {
	Filter       Filter
	FormulaPos   Position
	ConditionPos []Position

	layout formulaLayout
}

// formulaLayout says how offsets in the decoded formula map back to the
// document text.
type formulaLayout int

const (
	// layoutLine: the formula is written verbatim on one line.
	layoutLine formulaLayout = iota
	// layoutBlock: a block scalar whose lines follow FormulaPos.Line at
	// the same indentation.
	layoutBlock
	// layoutStart: the source text differs from the decoded value, so
	// every offset maps to the start of the scalar.
	layoutStart
)

// ConditionPosition returns the position of the condition with the given
// formula id, or of the formula when no such condition exists.
func (d *Document) ConditionPosition(id string) Position {
	for i, c := range d.Filter.Conditions {
		if c.FormulaID == id && i < len(d.ConditionPos) {
			return d.ConditionPos[i]
		}
	}
	return d.PositionOf(0)
}

// PositionOf maps a byte offset inside the formula to a document position.
// Formulas whose source text differs from their value, such as quoted
// strings with escapes or folded blocks spanning lines, map every offset to
// the start of the scalar.
func (d *Document) PositionOf(offset int) Position {
	if d.FormulaPos.Line == 0 {
		return Position{Line: 1, Column: 1}
	}
	switch d.layout {
	case layoutStart:
		return d.FormulaPos
	case layoutBlock:
		text := d.Filter.Formula
		offset = min(max(offset, 0), len(text))
		before := text[:offset]
		if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
			return Position{
				Line:   d.FormulaPos.Line + strings.Count(before, "\n"),
				Column: d.FormulaPos.Column + offset - nl - 1,
			}
		}
	}
	return Position{Line: d.FormulaPos.Line, Column: d.FormulaPos.Column + offset}
}

// Decode reads every YAML document in data as a Filter.
func Decode(data []byte) ([]*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	lines := strings.Split(string(data), "\n")

	var docs []*Document
	for {
		var root yaml.Node
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return docs, fmt.Errorf("decode filter: %w", err)
		}

		doc := &Document{}
		if err := root.Decode(&doc.Filter); err != nil {
			return docs, fmt.Errorf("decode filter: %w", err)
		}
		doc.FormulaPos, doc.layout, doc.ConditionPos = positions(&root, lines)
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, errors.New("decode filter: empty document")
	}
	return docs, nil
}

// LoadFile decodes the filters stored at path.
func LoadFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter file: %w", err)
	}
	docs, err := Decode(data)
	if err != nil {
		return docs, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Encode writes filters as a multi-document YAML stream.
func Encode(w io.Writer, filters ...Filter) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, f := range filters {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode filter %q: %w", f.Name, err)
		}
	}
	return enc.Close()
}

func positions(root *yaml.Node, lines []string) (formulaPos Position, layout formulaLayout, conds []Position) {
	node := root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return Position{}, layoutLine, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch {
		case key.Value == "formula" && value.Kind == yaml.ScalarNode:
			formulaPos, layout = formulaPosition(value, lines)
		case key.Value == "conditions" && value.Kind == yaml.SequenceNode:
			for _, item := range value.Content {
				conds = append(conds, Position{Line: item.Line, Column: item.Column})
			}
		}
	}
	return formulaPos, layout, conds
}

// formulaPosition locates the first character of a formula scalar's content
// and checks that the source text there matches the decoded value.
func formulaPosition(value *yaml.Node, lines []string) (Position, formulaLayout) {
	switch value.Style {
	case yaml.LiteralStyle, yaml.FoldedStyle:
		// value.Line is the line of the "|" or ">" indicator.
		pos := Position{Line: value.Line + 1, Column: 1}
		for n := pos.Line; n <= len(lines); n++ {
			if l := lines[n-1]; strings.TrimSpace(l) != "" {
				pos.Column = len(l) - len(strings.TrimLeft(l, " ")) + 1
				break
			}
		}
		for i, text := range strings.Split(value.Value, "\n") {
			if text != "" && !strings.HasPrefix(sourceAt(lines, pos.Line+i, pos.Column), text) {
				return pos, layoutStart
			}
		}
		return pos, layoutBlock
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
		pos := Position{Line: value.Line, Column: value.Column + 1}
		if !strings.HasPrefix(sourceAt(lines, pos.Line, pos.Column), value.Value) {
			return pos, layoutStart
		}
		return pos, layoutLine
	}
	pos := Position{Line: value.Line, Column: value.Column}
	if !strings.HasPrefix(sourceAt(lines, pos.Line, pos.Column), value.Value) {
		return pos, layoutStart
	}
	return pos, layoutLine
}

// sourceAt returns the rest of a 1-based line from a 1-based column.
func sourceAt(lines []string, line, column int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	l := lines[line-1]
	if column < 1 || column-1 > len(l) {
		return ""
	}
	return l[column-1:]
}
