package lsp

import (
	"errors"
	"regexp"
	"strconv"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/formulint/conditions"
	"github.com/dhamidi/formulint/formula"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Diagnose checks every filter in a document and returns one diagnostic per
// failing filter. The result is never nil so it can be published as is to
// clear earlier diagnostics.
func Diagnose(text string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}

	docs, err := conditions.Decode([]byte(text))
	if err != nil {
		line := 1
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		diags = append(diags, newDiagnostic(conditions.Position{Line: line, Column: 1}, 0, err.Error()))
	}

	for _, doc := range docs {
		if _, err := doc.Filter.Check(); err != nil {
			diags = append(diags, diagnoseFilter(doc, err))
		}
	}
	return diags
}

func diagnoseFilter(doc *conditions.Document, err error) protocol.Diagnostic {
	var (
		serr    *formula.SyntaxError
		missing *conditions.MissingConditionError
		unused  *conditions.UnusedConditionError
		dup     *conditions.DuplicateConditionError
	)
	switch {
	case errors.As(err, &serr):
		return newDiagnostic(doc.PositionOf(serr.Offset), 1, serr.Message)
	case errors.As(err, &missing):
		return newDiagnostic(doc.PositionOf(operandOffset(missing.Formula, missing.ID)), 1, err.Error())
	case errors.As(err, &unused):
		return newDiagnostic(doc.ConditionPosition(unused.ID), 0, err.Error())
	case errors.As(err, &dup):
		return newDiagnostic(duplicatePosition(doc, dup.ID), 0, err.Error())
	}
	return newDiagnostic(doc.PositionOf(0), 0, err.Error())
}

// duplicatePosition returns the position of the second condition using id.
func duplicatePosition(doc *conditions.Document, id string) conditions.Position {
	seen := false
	for i, c := range doc.Filter.Conditions {
		if c.FormulaID != id {
			continue
		}
		if seen && i < len(doc.ConditionPos) {
			return doc.ConditionPos[i]
		}
		seen = true
	}
	return doc.ConditionPosition(id)
}

// operandOffset returns the offset of the first occurrence of id in src.
func operandOffset(src, id string) int {
	for _, tok := range formula.Tokenize(src) {
		if tok.Kind == formula.TokenOperand && tok.Literal == id {
			return tok.Offset
		}
	}
	return 0
}

// newDiagnostic converts a 1-based document position into an error
// diagnostic spanning width characters.
func newDiagnostic(pos conditions.Position, width int, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	line := protocol.UInteger(max(pos.Line-1, 0))
	char := protocol.UInteger(max(pos.Column-1, 0))
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: char},
			End:   protocol.Position{Line: line, Character: char + protocol.UInteger(width)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}
