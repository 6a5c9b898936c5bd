package conditions

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleFilters = `name: web
evaltype: custom
formula: "A and (B or C)"
conditions:
  - id: A
    field: host
    operator: "="
    value: web01
  - id: B
    field: tag
    value: prod
  - id: C
    field: tag
    value: staging
---
name: generated
evaltype: or
conditions:
  - field: host
    value: db1
  - field: host
    value: db2
`

func TestDecode(t *testing.T) {
	docs, err := Decode([]byte(sampleFilters))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	web := docs[0]
	if web.Filter.Name != "web" || web.Filter.EvalType != EvalCustom {
		t.Errorf("first filter = %+v", web.Filter)
	}
	if len(web.Filter.Conditions) != 3 || web.Filter.Conditions[0].Value != "web01" {
		t.Errorf("conditions = %+v", web.Filter.Conditions)
	}
	if web.FormulaPos != (Position{Line: 3, Column: 11}) {
		t.Errorf("FormulaPos = %+v, want 3:11", web.FormulaPos)
	}
	if got := web.PositionOf(4); got != (Position{Line: 3, Column: 15}) {
		t.Errorf("PositionOf(4) = %+v", got)
	}
	if len(web.ConditionPos) != 3 {
		t.Fatalf("ConditionPos = %+v, want 3 entries", web.ConditionPos)
	}
	if got := web.ConditionPosition("B"); got != (Position{Line: 9, Column: 5}) {
		t.Errorf("ConditionPosition(B) = %+v, want 9:5", got)
	}
	if got := web.ConditionPosition("Z"); got != web.FormulaPos {
		t.Errorf("ConditionPosition(Z) = %+v, want formula position", got)
	}

	gen := docs[1]
	if gen.Filter.EvalType != EvalOr {
		t.Errorf("EvalType = %v, want or", gen.Filter.EvalType)
	}
	if gen.FormulaPos != (Position{}) {
		t.Errorf("FormulaPos = %+v, want zero", gen.FormulaPos)
	}
	if got := gen.PositionOf(3); got != (Position{Line: 1, Column: 1}) {
		t.Errorf("PositionOf without formula = %+v", got)
	}

	for _, doc := range docs {
		if _, err := doc.Filter.Check(); err != nil {
			t.Errorf("%s: Check error = %v", doc.Filter.Name, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"bad evaltype": "name: x\nevaltype: xor\n",
		"bad yaml":     "name: [unterminated\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f := Filter{Name: "x", EvalType: EvalCustom, Formula: "A or B", Conditions: ids("A", "B")}

	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		t.Fatalf("Encode error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "x.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if docs[0].Filter.EvalType != EvalCustom || docs[0].Filter.Formula != "A or B" {
		t.Errorf("decoded = %+v", docs[0].Filter)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeFormulaPositions(t *testing.T) {
	const conds = "conditions:\n  - id: A\n    field: host\n"
	tests := []struct {
		name    string
		formula string
		offset  int
		want    Position
		start   Position
	}{
		{
			name:    "plain",
			formula: "formula: A or B\n",
			offset:  5,
			start:   Position{Line: 3, Column: 10},
			want:    Position{Line: 3, Column: 15},
		},
		{
			name:    "single quoted",
			formula: "formula: 'A or B'\n",
			offset:  5,
			start:   Position{Line: 3, Column: 11},
			want:    Position{Line: 3, Column: 16},
		},
		{
			name:    "literal block first line",
			formula: "formula: |\n  A and\n  (B or C)\n",
			offset:  2,
			start:   Position{Line: 4, Column: 3},
			want:    Position{Line: 4, Column: 5},
		},
		{
			name:    "literal block second line",
			formula: "formula: |\n  A and\n  (B or C)\n",
			offset:  7,
			start:   Position{Line: 4, Column: 3},
			want:    Position{Line: 5, Column: 4},
		},
		{
			name:    "folded block over several lines",
			formula: "formula: >\n  A and\n  B\n",
			offset:  6,
			start:   Position{Line: 4, Column: 3},
			want:    Position{Line: 4, Column: 3},
		},
		{
			name:    "double quoted with escape",
			formula: "formula: \"\\tA B\"\n",
			offset:  3,
			start:   Position{Line: 3, Column: 11},
			want:    Position{Line: 3, Column: 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "name: x\nevaltype: custom\n" + tt.formula + conds
			docs, err := Decode([]byte(src))
			if err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			doc := docs[0]
			if doc.FormulaPos != tt.start {
				t.Errorf("FormulaPos = %+v, want %+v", doc.FormulaPos, tt.start)
			}
			if got := doc.PositionOf(tt.offset); got != tt.want {
				t.Errorf("PositionOf(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}
