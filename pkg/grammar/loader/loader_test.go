package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
	"mercator-hq/arbor/pkg/grammar/grammartest"
)

func TestLoader_LoadGrammar(t *testing.T) {
	g, err := New().LoadGrammar("testdata/lang.yaml")
	if err != nil {
		t.Fatalf("LoadGrammar() failed: %v", err)
	}

	if g.Name != "lang" {
		t.Errorf("Name = %q, want %q", g.Name, "lang")
	}
	if g.SourceFile != "testdata/lang.yaml" {
		t.Errorf("SourceFile = %q", g.SourceFile)
	}

	want := grammartest.Lang()
	if len(g.Unions) != len(want.Unions) {
		t.Errorf("len(Unions) = %d, want %d", len(g.Unions), len(want.Unions))
	}
	for name, members := range want.Unions {
		got := g.Unions[name]
		if strings.Join(got, ",") != strings.Join(members, ",") {
			t.Errorf("Unions[%q] = %v, want %v", name, got, members)
		}
	}

	if len(g.Types) != len(want.Types) {
		t.Errorf("len(Types) = %d, want %d", len(g.Types), len(want.Types))
	}
	for name, def := range want.Types {
		if !ast.Equal(g.Types[name], def) {
			t.Errorf("Types[%q] = %v, want %v", name, g.Types[name], def)
		}
	}
}

func TestLoader_LoadTree(t *testing.T) {
	node, err := New().LoadTree("testdata/program.yaml")
	if err != nil {
		t.Fatalf("LoadTree() failed: %v", err)
	}

	want := grammartest.ExampleProgram()
	if got, wantCount := ast.CountNodes(node), ast.CountNodes(want); got != wantCount {
		t.Errorf("CountNodes() = %d, want %d", got, wantCount)
	}
	if !ast.Equal(node.Type, want.Type) {
		t.Errorf("root type = %v, want %v", node.Type, want.Type)
	}
	if node.Location.Line != 2 || node.Location.File != "testdata/program.yaml" {
		t.Errorf("root location = %v", node.Location)
	}

	list, ok := node.Value.(*ast.ListValue)
	if !ok || len(list.Items) != 1 {
		t.Fatalf("root value = %#v, want a single-item list", node.Value)
	}
	stmt := list.Items[0].Value.(*ast.KeyedValue)
	call := stmt.Items["expression"].Value.(*ast.KeyedValue)
	name := call.Items["function"].Value.(*ast.KeyedValue).Items["name"]
	if s, ok := name.Value.(*ast.StringValue); !ok || s.Text != "assert" {
		t.Errorf("function name = %#v, want \"assert\"", name.Value)
	}

	args := call.Items["arguments"]
	wantArgsType := ast.Generic(ast.TypeList, ast.Name("lang.Expression"))
	if !ast.Equal(args.Type, wantArgsType) {
		t.Errorf("arguments type = %v, want %v", args.Type, wantArgsType)
	}
}

func TestLoader_ParseTree_Shapes(t *testing.T) {
	src := `
type: t.Root
keyed:
  absent: ~
  emptyHole: {type: primitive.Hole, hole: ~}
  filledHole:
    type: {type: primitive.Hole, parameters: [t.X]}
    hole: {type: t.X, leaf: ~}
  emptyOption: {type: primitive.Option, option: ~}
  emptyList: {type: primitive.List, list: []}
  text: {type: primitive.String, string: "42"}
`
	node, err := New().ParseTree([]byte(src), "shapes.yaml")
	if err != nil {
		t.Fatalf("ParseTree() failed: %v", err)
	}

	items := node.Value.(*ast.KeyedValue).Items
	if n, ok := items["absent"]; !ok || n != nil {
		t.Errorf("absent = %v, %v; want present nil entry", n, ok)
	}
	if h := items["emptyHole"].Value.(*ast.HoleValue); h.Filled() {
		t.Error("emptyHole should be unfilled")
	}
	if h := items["filledHole"].Value.(*ast.HoleValue); !h.Filled() || h.Content.Value.Kind() != ast.KindLeaf {
		t.Errorf("filledHole = %#v", h)
	}
	if o := items["emptyOption"].Value.(*ast.OptionValue); o.Content != nil {
		t.Error("emptyOption should be empty")
	}
	if l := items["emptyList"].Value.(*ast.ListValue); len(l.Items) != 0 {
		t.Errorf("emptyList has %d items", len(l.Items))
	}
	if s := items["text"].Value.(*ast.StringValue); s.Text != "42" {
		t.Errorf("text = %q, want %q", s.Text, "42")
	}
}

func TestLoader_ParseType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Type
	}{
		{"bare name", "lang.Statement", ast.Name("lang.Statement")},
		{"no parameters", "{type: primitive.Leaf}", ast.Generic(ast.TypeLeaf)},
		{"empty parameters", "{type: primitive.Leaf, parameters: []}", ast.Generic(ast.TypeLeaf)},
		{
			"positional",
			"{type: primitive.List, parameters: [lang.Statement]}",
			ast.Generic(ast.TypeList, ast.Name("lang.Statement")),
		},
		{
			"keyed",
			"{type: primitive.Keyed, parameters: {a: x.A, b: {type: primitive.Option, parameters: [x.B]}}}",
			ast.Record(ast.TypeKeyed, ast.Fields{
				"a": ast.Name("x.A"),
				"b": ast.Generic(ast.TypeOption, ast.Name("x.B")),
			}),
		},
		{"empty keyed", "{type: primitive.Keyed, parameters: {}}", ast.Record(ast.TypeKeyed, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().ParseType([]byte(tt.input), "")
			if err != nil {
				t.Fatalf("ParseType() error = %v", err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("ParseType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoader_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parse   func(*Loader, []byte) error
		wantMsg string
	}{
		{
			name:    "grammar not a mapping",
			input:   "[a, b]",
			parse:   parseGrammar,
			wantMsg: "grammar must be a mapping",
		},
		{
			name:    "grammar without name",
			input:   "types: {X: primitive.Leaf}",
			parse:   parseGrammar,
			wantMsg: "grammar has no name",
		},
		{
			name:    "union members not a list",
			input:   "name: g\nunions:\n  A: X",
			parse:   parseGrammar,
			wantMsg: `members of union "A" must be a sequence`,
		},
		{
			name:    "unknown grammar key",
			input:   "name: g\nimports: [x]",
			parse:   parseGrammar,
			wantMsg: `unknown grammar key "imports"`,
		},
		{
			name:    "definition without head",
			input:   "name: g\ntypes:\n  X: {parameters: [a.B]}",
			parse:   parseGrammar,
			wantMsg: "structured type needs a 'type' head name",
		},
		{
			name:    "bad parameters",
			input:   "name: g\ntypes:\n  X: {type: primitive.List, parameters: 3}",
			parse:   parseGrammar,
			wantMsg: "parameters must be a sequence or a mapping",
		},
		{
			name:    "union declared bare and qualified",
			input:   "name: g\nunions:\n  U: [A]\n  g.U: [B]",
			parse:   parseGrammar,
			wantMsg: `union "g.U" declared twice (as "U" and "g.U")`,
		},
		{
			name:    "type declared bare and qualified",
			input:   "unions: {}\ntypes:\n  g.Stmt: primitive.Leaf\n  Stmt: primitive.Leaf\nname: g",
			parse:   parseGrammar,
			wantMsg: `type "g.Stmt" declared twice (as "g.Stmt" and "Stmt")`,
		},
		{
			name:    "node without type",
			input:   "leaf: {}",
			parse:   parseTree,
			wantMsg: "tree node has no type",
		},
		{
			name:    "node without value",
			input:   "type: t.X",
			parse:   parseTree,
			wantMsg: "tree node has no value",
		},
		{
			name:    "node with two values",
			input:   "type: t.X\nleaf: {}\nstring: a",
			parse:   parseTree,
			wantMsg: `node has both "leaf" and "string" values`,
		},
		{
			name:    "list value not a sequence",
			input:   "type: t.X\nlist: {a: b}",
			parse:   parseTree,
			wantMsg: "list value must be a sequence",
		},
		{
			name:    "unknown node key",
			input:   "type: t.X\nleaf: {}\ncomment: hi",
			parse:   parseTree,
			wantMsg: `unknown node key "comment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(New(), []byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var errList *grammarErrors.ErrorList
			if !errors.As(err, &errList) {
				t.Fatalf("error type = %T, want *ErrorList", err)
			}
			if !errList.HasKind(grammarErrors.KindStructural) {
				t.Errorf("error kinds do not include structural: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			if !strings.Contains(err.Error(), "--> test.yaml:") {
				t.Errorf("error = %q, want a location", err.Error())
			}
		})
	}
}

func TestLoader_AccumulatesErrors(t *testing.T) {
	src := "name: g\nunions:\n  A: X\ntypes:\n  Y: 7\n  Z: {type: primitive.List, parameters: 3}\n"
	_, err := New().ParseGrammar([]byte(src), "test.yaml")

	var errList *grammarErrors.ErrorList
	if !errors.As(err, &errList) {
		t.Fatalf("error type = %T, want *ErrorList", err)
	}
	if errList.Count() != 3 {
		t.Errorf("Count() = %d, want 3: %v", errList.Count(), err)
	}
}

func TestLoader_SyntaxError(t *testing.T) {
	_, err := New().ParseGrammar([]byte("name: [unclosed"), "bad.yaml")

	var gErr *grammarErrors.Error
	if !errors.As(err, &gErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if gErr.Kind != grammarErrors.KindSyntax {
		t.Errorf("Kind = %q, want %q", gErr.Kind, grammarErrors.KindSyntax)
	}
}

func TestLoader_EmptyDocument(t *testing.T) {
	_, err := New().ParseTree([]byte("# nothing here\n"), "empty.yaml")
	if err == nil || !strings.Contains(err.Error(), "document is empty") {
		t.Errorf("ParseTree() error = %v, want empty document error", err)
	}
}

func TestLoader_FileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New().LoadGrammar(filepath.Join(dir, "missing.yaml"))
	var gErr *grammarErrors.Error
	if !errors.As(err, &gErr) || gErr.Kind != grammarErrors.KindIO {
		t.Errorf("missing file error = %v, want io error", err)
	}

	path := filepath.Join(dir, "big.yaml")
	if err := os.WriteFile(path, []byte("name: big\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = New().WithMaxFileSize(4).LoadGrammar(path)
	if !errors.As(err, &gErr) || gErr.Kind != grammarErrors.KindIO {
		t.Errorf("oversized file error = %v, want io error", err)
	}
}

func TestLoader_MaxDepth(t *testing.T) {
	src := "type: t.X\nhole:\n  type: t.X\n  hole:\n    type: t.X\n    hole: ~\n"
	if _, err := New().WithMaxDepth(1).ParseTree([]byte(src), "deep.yaml"); err == nil {
		t.Error("expected depth error, got nil")
	}
	if _, err := New().WithMaxDepth(2).ParseTree([]byte(src), "deep.yaml"); err != nil {
		t.Errorf("ParseTree() at depth limit failed: %v", err)
	}
}

func parseGrammar(l *Loader, data []byte) error {
	_, err := l.ParseGrammar(data, "test.yaml")
	return err
}

func parseTree(l *Loader, data []byte) error {
	_, err := l.ParseTree(data, "test.yaml")
	return err
}
