package resource

import (
	"bytes"
	"reflect"
	"testing"
)

var noop = HandlerFunc(func(ctx *Context) error { return nil })

type testResponder struct {
	bytes.Buffer
	contentType string
}

func (r *testResponder) SetContentType(ct string) { r.contentType = ct }

func TestLeafMatch(t *testing.T) {
	plain := NewLeaf("@@Plain", noop)
	tailed := NewLeaf("@@Tailed", noop, LeafVar(Variable("id", Int)))

	tests := []struct {
		name      string
		leaf      *Leaf
		remaining []string
		wantKind  MatchKind
		wantVar   any
	}{
		{"plain terminates on empty", plain, nil, KindTerminated, nil},
		{"plain rejects leftovers", plain, []string{"x"}, KindNoMatch, nil},
		{"tailed consumes one", tailed, []string{"42"}, KindTerminated, 42},
		{"tailed rejects empty", tailed, nil, KindNoMatch, nil},
		{"tailed rejects bad type", tailed, []string{"wilber"}, KindNoMatch, nil},
		{"tailed rejects two", tailed, []string{"42", "x"}, KindNoMatch, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext("GET", "/", nil)
			m := tt.leaf.Match(tt.remaining, ctx)
			if m.Kind != tt.wantKind {
				t.Fatalf("Match kind = %v, want %v", m.Kind, tt.wantKind)
			}
			if tt.wantVar != nil {
				if v, _ := ctx.Var("id"); v != tt.wantVar {
					t.Errorf("captured id = %v, want %v", v, tt.wantVar)
				}
			}
		})
	}
}

func TestFolderFixedBeforeVariable(t *testing.T) {
	recent := NewLeaf("@@Recent", noop)
	byID := NewLeaf("@@ByID", noop)

	f := NewFolder()
	f.SetVar(Variable("id", String), byID)
	f.Set("recent", recent)

	ctx := NewContext("GET", "/", nil)
	m := f.Match([]string{"recent"}, ctx)
	if m.Kind != KindDelegated || m.Node != Node(recent) {
		t.Errorf("fixed child not preferred: %+v", m)
	}

	m = f.Match([]string{"other"}, ctx)
	if m.Kind != KindDelegated || m.Node != Node(byID) {
		t.Errorf("variable child not reached: %+v", m)
	}
}

func TestFolderDefault(t *testing.T) {
	home := NewLeaf("@@Home", noop)
	f := NewFolderWithDefault(home)

	ctx := NewContext("GET", "/", nil)
	m := f.Match(nil, ctx)
	if m.Kind != KindDelegated || m.Node != Node(home) || m.Consumed != 0 {
		t.Errorf("default delegation = %+v", m)
	}

	if m := NewFolder().Match(nil, ctx); m.Kind != KindNoMatch {
		t.Errorf("folder without default matched empty path: %+v", m)
	}
}

func TestFolderDefaultByName(t *testing.T) {
	index := NewLeaf("@@Index", noop)
	f := NewFolderWithDefaultName("index")
	f.Set("index", index)

	def, err := f.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if def != Node(index) {
		t.Errorf("Default() = %v, want the index leaf", def)
	}

	bad := NewFolderWithDefaultName("missing")
	if _, err := bad.Default(); err == nil {
		t.Error("Default with unknown name succeeded")
	}
}

func TestFolderMenu(t *testing.T) {
	f := NewFolderWithMenu(FolderID("@@Section"))
	f.Set("b", NewLeaf("@@B", noop))
	f.Set("a", NewLeaf("@@A", noop))
	f.SetVar(Variable("id", Int), NewLeaf("@@ByID", noop))

	want := []MenuEntry{
		{Name: "a", ResID: "@@A"},
		{Name: "b", ResID: "@@B"},
		{Name: "(id:int)", ResID: "@@ByID"},
	}
	if got := f.Menu(); !reflect.DeepEqual(got, want) {
		t.Errorf("Menu() = %v, want %v", got, want)
	}

	ctx := NewContext("GET", "/", nil)
	resp := &testResponder{}
	ctx.Response = resp
	m := f.Match(nil, ctx)
	if m.Kind != KindTerminated {
		t.Fatalf("menu folder did not terminate on empty path: %+v", m)
	}
	if err := m.Handler.Handle(ctx); err != nil {
		t.Fatalf("menu handler: %v", err)
	}
	if got := resp.String(); got != "a\t@@A\nb\t@@B\n(id:int)\t@@ByID\n" {
		t.Errorf("menu output = %q", got)
	}
}

func TestFolderEnumerate(t *testing.T) {
	home := NewLeaf("@@Home", noop)
	search := NewLeaf("@@Search", noop)
	byID := NewLeaf("@@ByID", noop)

	f := NewFolderWithDefault(home)
	f.Set("search", search)
	f.SetVar(Variable("id", Int), byID)

	var v Visitor
	f.Enumerate(&v)

	if v.IsTarget() {
		t.Error("anonymous folder with default declared itself a target")
	}
	branches := v.Branches()
	if len(branches) != 3 {
		t.Fatalf("branches = %d, want 3", len(branches))
	}
	if branches[0].Kind != BranchFixed || branches[0].Child != Node(search) {
		t.Errorf("branch 0 = %+v, want fixed search", branches[0])
	}
	if branches[1].Kind != BranchVar || branches[1].Child != Node(byID) {
		t.Errorf("branch 1 = %+v, want var id", branches[1])
	}
	if branches[2].Kind != BranchAnon || branches[2].Child != Node(home) {
		t.Errorf("branch 2 = %+v, want anon default", branches[2])
	}
}

func TestContextURLWithoutBuilder(t *testing.T) {
	ctx := NewContext("GET", "/", nil)
	if _, err := ctx.URL("@@Home", nil); err == nil {
		t.Error("URL without builder succeeded")
	}
}
