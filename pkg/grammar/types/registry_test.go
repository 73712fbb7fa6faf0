package types

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
	"mercator-hq/arbor/pkg/grammar/grammartest"
)

func TestNew_KnownNames(t *testing.T) {
	r := mustRegistry(t, grammartest.Lang())

	for _, name := range ast.PrimitiveTypes() {
		if !r.Known(name) {
			t.Errorf("primitive %q should be known", name)
		}
	}
	for _, name := range []string{"lang.Statement", "lang.Program", "lang.BooleanLiteral", "lang.FunctionParameter"} {
		if !r.Known(name) {
			t.Errorf("%q should be known", name)
		}
	}
	for _, name := range []string{"Statement", "lang.Nope", "other.Statement"} {
		if r.Known(name) {
			t.Errorf("%q should not be known", name)
		}
	}

	if r.Name() != "lang" {
		t.Errorf("Name() = %q, want %q", r.Name(), "lang")
	}
}

func TestNew_Supertypes(t *testing.T) {
	r := mustRegistry(t, grammartest.Lang())

	tests := []struct {
		name  string
		super string
		ok    bool
	}{
		{ast.TypeNothing, ast.TypeLeaf, true},
		{"lang.IfStatement", "lang.Statement", true},
		{"lang.FunctionDeclaration", "lang.Declaration", true},
		{"lang.Declaration", "lang.Statement", true},
		{"lang.Statement", "", false},
		{ast.TypeLeaf, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			super, ok := r.Supertype(tt.name)
			if ok != tt.ok || super != tt.super {
				t.Errorf("Supertype(%q) = %q, %v; want %q, %v", tt.name, super, ok, tt.super, tt.ok)
			}
		})
	}

	chain := r.Ancestors("lang.BooleanLiteralTrue")
	if len(chain) != 2 || chain[0] != "lang.BooleanLiteral" || chain[1] != "lang.Expression" {
		t.Errorf("Ancestors() = %v", chain)
	}
}

func TestNew_Supertypes_DuplicateMemberInOneUnion(t *testing.T) {
	r, err := New(&ast.Grammar{
		Name:   "g",
		Unions: map[string][]string{"U": {"A", "A"}},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	super, ok := r.Supertype("g.A")
	if !ok || super != "g.U" {
		t.Errorf("Supertype(g.A) = %q, %v; want %q, true", super, ok, "g.U")
	}
}

func TestNew_CollidingUnionKeysAreMerged(t *testing.T) {
	g := &ast.Grammar{
		Name:   "g",
		Unions: map[string][]string{"U": {"A"}, "g.U": {"B"}},
	}

	want := []string{"g.A", "g.B"}
	for i := 0; i < 100; i++ {
		r := mustRegistry(t, g)
		if got := r.Unions()["g.U"]; !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: Unions()[g.U] = %v, want %v", i, got, want)
		}
		for _, member := range want {
			if super, ok := r.Supertype(member); !ok || super != "g.U" {
				t.Fatalf("run %d: Supertype(%q) = %q, %v; want g.U", i, member, super, ok)
			}
		}
	}
}

func TestNew_DefinitionsAreNormalized(t *testing.T) {
	r := mustRegistry(t, grammartest.Lang())

	def, ok := r.Definition("lang.Program")
	if !ok {
		t.Fatal("lang.Program should have a definition")
	}
	want := ast.Generic(ast.TypeList, ast.Name("lang.Statement"))
	if !ast.Equal(def, want) {
		t.Errorf("Definition(lang.Program) = %v, want %v", def, want)
	}

	nothing, ok := r.Definition(ast.TypeNothing)
	if !ok || !ast.Equal(nothing, ast.Generic(ast.TypeLeaf)) {
		t.Errorf("Definition(primitive.Nothing) = %v, %v", nothing, ok)
	}

	if _, ok := r.Definition("lang.Statement"); ok {
		t.Error("unions should not have definitions")
	}
}

func TestNew_AmbiguousSupertype(t *testing.T) {
	tests := []struct {
		name    string
		grammar *ast.Grammar
	}{
		{
			name: "type in two unions",
			grammar: &ast.Grammar{
				Name: "g",
				Unions: map[string][]string{
					"A": {"X", "Y"},
					"B": {"Z", "X"},
				},
			},
		},
		{
			name: "qualified and bare spelling of the same member",
			grammar: &ast.Grammar{
				Name: "g",
				Unions: map[string][]string{
					"A": {"X"},
					"B": {"g.X"},
				},
			},
		},
		{
			name: "redeclaring the built-in supertype of nothing",
			grammar: &ast.Grammar{
				Name: "g",
				Unions: map[string][]string{
					"A": {ast.TypeNothing},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.grammar)
			if err == nil {
				t.Fatalf("New() = %v, want error", r)
			}
			if !errors.Is(err, grammarErrors.ErrAmbiguousSupertype) {
				t.Errorf("New() error = %v, want ambiguous supertype", err)
			}
		})
	}
}

func TestNew_AmbiguousSupertypeIsDeterministic(t *testing.T) {
	g := &ast.Grammar{
		Name: "g",
		Unions: map[string][]string{
			"C": {"X"},
			"A": {"X"},
			"B": {"X"},
		},
	}

	for i := 0; i < 20; i++ {
		_, err := New(g)
		var typeErr *grammarErrors.Error
		if !errors.As(err, &typeErr) {
			t.Fatalf("New() error = %v", err)
		}
		want := `type "g.X" has ambiguous supertype: declared in both "g.A" and "g.B"`
		if typeErr.Message != want {
			t.Fatalf("Message = %q", typeErr.Message)
		}
	}
}

func TestNew_RegistriesAreIndependent(t *testing.T) {
	first := mustRegistry(t, grammartest.Empty())
	second := mustRegistry(t, &ast.Grammar{
		Name:   "g",
		Unions: map[string][]string{"Things": {"Thing"}},
		Types:  map[string]*ast.Structured{"Thing": ast.Generic(ast.TypeLeaf)},
	})

	if first.Known("g.Thing") {
		t.Error("names from one registry leaked into another")
	}
	if !second.Known("g.Thing") {
		t.Error("g.Thing should be known")
	}

	unions := second.Unions()
	unions["g.Things"][0] = "g.Other"
	if !mustSubtype(t, second, ast.Name("g.Thing"), ast.Name("g.Things")) {
		t.Error("mutating Unions() output changed the registry")
	}

	names := first.Names()
	names[0] = "mutated"
	if first.Names()[0] == "mutated" {
		t.Error("mutating Names() output changed the registry")
	}
}

func TestNew_DoesNotMutateGrammar(t *testing.T) {
	g := grammartest.Lang()
	if _, err := New(g); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := g.Unions["Statement"]; !ok {
		t.Error("New() rewrote the caller's grammar")
	}
	if g.Types["Program"].Params.(ast.Positional)[0] != ast.Name("Statement") {
		t.Error("New() rewrote the caller's type definitions")
	}
}

func TestRegistry_ConcurrentQueries(t *testing.T) {
	r := mustRegistry(t, grammartest.Lang())
	tree := grammartest.ExampleProgram()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.IsTypeValid(tree)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- errors.New("example program reported invalid")
			}
			ok, err = r.IsSubtype(ast.Name("lang.IfStatement"), ast.Name("lang.Statement"))
			if err != nil || !ok {
				errs <- errors.New("IfStatement should be a Statement")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := mustRegistry(t, grammartest.Lang())

	if err := r.Resolve(ast.Record(ast.TypeKeyed, ast.Fields{"a": ast.Name("lang.Block")})); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
	err := r.Resolve(ast.Generic(ast.TypeList, ast.Generic(ast.TypeOption, ast.Name("lang.Blok"))))
	if !errors.Is(err, grammarErrors.ErrUnknownType) {
		t.Errorf("Resolve() error = %v, want unknown type", err)
	}
}
