package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReader(t *testing.T) {
	src := `func home(ctx *resource.Context) error {
	link, _ := ctx.URL("@@PhotoView", resource.Args{"id": 1})
	other, _ := ctx.URL("@@Search", nil) // also @@Search
	return nil
}`

	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	refs, err := s.Reader("home.go", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}

	want := []Ref{
		{ID: "@@PhotoView", File: "home.go", Line: 2},
		{ID: "@@Search", File: "home.go", Line: 3},
		{ID: "@@Search", File: "home.go", Line: 3},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %v, want %v", refs, want)
	}

	if got, want := Unique(refs), []string{"@@PhotoView", "@@Search"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

func TestCustomPattern(t *testing.T) {
	s, err := New(`R_[A-Z]+`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	refs, err := s.Reader("tpl", strings.NewReader(`<a href="{url R_HOME}">`))
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != "R_HOME" {
		t.Errorf("refs = %v, want one R_HOME", refs)
	}
}

func TestNewBadPattern(t *testing.T) {
	if _, err := New(`@@(`); err == nil {
		t.Error("New with invalid regexp succeeded")
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("app/home.go", `ctx.URL("@@Home", nil)`)
	write("app/tpl/view.html", `<a href="@@PhotoView">`)
	write(".git/config", `@@Hidden`)
	write("_build/gen.go", `@@Generated`)

	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	refs, err := s.Dir(dir)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}

	if got, want := Unique(refs), []string{"@@Home", "@@PhotoView"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}
