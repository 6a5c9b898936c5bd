package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The commonlog backend writes through a buffered writer goroutine that
	// lives for the whole process.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/tliron/kutil/util.(*BufferedWriter).run"))
}

// run executes the root command with a configuration file that does not
// exist, so defaults apply.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "formulint.yaml")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRepeatedRunsDoNotStartLogWriters(t *testing.T) {
	if _, err := run(t, "formula", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		if _, err := run(t, "formula", "A"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if after := runtime.NumGoroutine(); after > before {
		t.Errorf("goroutines = %d after 5 runs, want at most %d", after, before)
	}
}

const goodFilters = `name: web
evaltype: custom
formula: "A and (B or C)"
conditions:
  - id: A
    field: host
  - id: B
    field: tag
    value: prod
  - id: C
    field: tag
    value: staging
---
name: generated
evaltype: and/or
conditions:
  - field: host
    value: db1
  - field: host
    value: db2
  - field: port
    value: "5432"
`

const badFilters = `name: broken
evaltype: custom
formula: "A and B"
conditions:
  - id: A
    field: host
`

func TestFormulaCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "canonical form",
			args: []string{"formula", "A  and(B or C)"},
			want: []string{"formula:  A and (B or C)", "operands: A, B, C"},
		},
		{
			name: "matching conditions",
			args: []string{"formula", "A or B", "--conditions", "A,B"},
			want: []string{"conditions: ok"},
		},
		{
			name:    "missing condition",
			args:    []string{"formula", "A or B", "--conditions", "A"},
			wantErr: "B",
		},
		{
			name: "evaluate",
			args: []string{"formula", "A and (B or C)", "--eval", "A=true,B=false,C=true"},
			want: []string{"result:   true"},
		},
		{
			name:    "syntax error",
			args:    []string{"formula", "A and"},
			wantErr: "unexpected end of formula",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q does not contain %q", out, w)
				}
			}
		})
	}
}

func TestBuildCmd(t *testing.T) {
	out, err := run(t, "build", "host=a", "host=b", "port=80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "formula: (A or B) and C") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "build", "--evaltype", "or", "--yaml", "--name", "db", "host=db1", "host=db2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range []string{"name: db", "formula: A or B", "id: B"} {
		if !strings.Contains(out, w) {
			t.Errorf("yaml output %q does not contain %q", out, w)
		}
	}

	if _, err := run(t, "build", "--evaltype", "custom", "host"); err == nil {
		t.Error("expected error for custom evaluation type")
	}
}

func TestParseConditionArg(t *testing.T) {
	tests := []struct {
		arg                  string
		id, field, op, value string
		wantErr              bool
	}{
		{arg: "host", field: "host"},
		{arg: "host=web", field: "host", op: "=", value: "web"},
		{arg: "Q:tag=a=b", id: "Q", field: "tag", op: "=", value: "a=b"},
		{arg: "=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			c, err := parseConditionArg(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.FormulaID != tt.id || c.Field != tt.field || c.Operator != tt.op || c.Value != tt.value {
				t.Errorf("got %+v", c)
			}
		})
	}
}

func TestTokensCmd(t *testing.T) {
	out, err := run(t, "tokens", "{$LIMIT}>=5m and ({$MIN}<{#IDX})")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range []string{`0 UserMacro "{$LIMIT}"`, `Operator ">="`, `Number "5m"`, `LLDMacro "{#IDX}"`} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q does not contain %q", out, w)
		}
	}
	if strings.Contains(out, "Space") {
		t.Errorf("space tokens printed without --space: %q", out)
	}

	out, err = run(t, "tokens", "--macros", "{$A}+{$B}*{$A}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A\nB\n" {
		t.Errorf("macros output = %q, want %q", out, "A\nB\n")
	}

	if _, err := run(t, "tokens", "(1+2"); err == nil {
		t.Error("expected error for unbalanced parenthesis")
	}
}

func TestCheckCmd(t *testing.T) {
	good := writeFile(t, "good.yaml", goodFilters)
	out, err := run(t, "check", good)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, w := range []string{"web: ", "A and (B or C)", "generated: ", "(A or B) and C"} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q does not contain %q", out, w)
		}
	}

	bad := writeFile(t, "bad.yaml", badFilters)
	out, err = run(t, "check", good, bad)
	if err == nil {
		t.Fatal("expected error for invalid filter")
	}
	if !strings.Contains(err.Error(), "1 of 3 filters failed") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out, "broken: ") {
		t.Errorf("output %q does not report the broken filter", out)
	}
	if strings.Index(out, "good.yaml") > strings.Index(out, "bad.yaml") {
		t.Errorf("reports out of order: %q", out)
	}

	if _, err := run(t, "check", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStoreCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "filters.db")
	good := writeFile(t, "good.yaml", goodFilters)

	out, err := run(t, "store", "--db", db, "add", good)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "saved web: A and (B or C)") {
		t.Errorf("add output = %q", out)
	}

	out, err = run(t, "store", "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "generated") || !strings.Contains(out, "web") {
		t.Errorf("list output = %q", out)
	}

	out, err = run(t, "store", "--db", db, "show", "generated")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "name: generated") || !strings.Contains(out, "value: db2") {
		t.Errorf("show output = %q", out)
	}

	if _, err := run(t, "store", "--db", db, "rm", "web"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := run(t, "store", "--db", db, "show", "web"); err == nil {
		t.Error("expected error showing removed filter")
	}

	bad := writeFile(t, "bad.yaml", badFilters)
	if _, err := run(t, "store", "--db", db, "add", bad); err == nil {
		t.Error("expected error adding invalid filter")
	}
}

func TestGrammarCmd(t *testing.T) {
	out, err := run(t, "grammar", "check")
	if err != nil || !strings.Contains(out, "ok") {
		t.Fatalf("check built-in: out=%q err=%v", out, err)
	}

	broken := writeFile(t, "broken.ebnf", "Formula = Term { Operator Term } .\n")
	out, err = run(t, "grammar", "check", broken)
	if err == nil {
		t.Fatal("expected verification error for undefined productions")
	}
	if !strings.Contains(out, "Term") {
		t.Errorf("errors not printed: %q", out)
	}
	if strings.Contains(out, "Error:") || strings.Contains(out, "verify grammar") {
		t.Errorf("errors printed twice: %q", out)
	}

	out, err = run(t, "grammar", "tokens", "A and (B)")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	for _, w := range []string{`operand "A"`, `and "and"`, `lparen "("`} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q does not contain %q", out, w)
		}
	}

	out, err = run(t, "grammar", "show")
	if err != nil || !strings.Contains(out, "Formula") {
		t.Errorf("show: out=%q err=%v", out, err)
	}
}
