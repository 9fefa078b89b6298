package mapper

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/resource"
)

func TestWriteListing(t *testing.T) {
	reg, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteListing(&buf, reg); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != reg.Len() {
		t.Fatalf("listing has %d lines, want %d:\n%s", len(lines), reg.Len(), out)
	}

	// Sorted by id, aligned columns, docstring carried through.
	if !strings.HasPrefix(lines[0], "@@Admin ") {
		t.Errorf("first line = %q, want @@Admin first", lines[0])
	}
	found := false
	for _, line := range lines {
		if strings.HasPrefix(line, "@@PhotoView") {
			found = true
			if !strings.Contains(line, "/photos/(id:int)") || !strings.Contains(line, "Single photo") {
				t.Errorf("@@PhotoView line = %q", line)
			}
		}
	}
	if !found {
		t.Errorf("no @@PhotoView line in listing:\n%s", out)
	}
}

func TestListingRoundTrip(t *testing.T) {
	orig, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := orig.AddStatic("@@Logo", "https://static.example.com/logo.png"); err != nil {
		t.Fatalf("AddStatic: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteListing(&buf, orig); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(loaded.IDs(), orig.IDs()) {
		t.Fatalf("loaded ids = %v, want %v", loaded.IDs(), orig.IDs())
	}
	for _, id := range orig.IDs() {
		op, _ := orig.Pattern(id)
		lp, err := loaded.Pattern(id)
		if err != nil {
			t.Fatalf("loaded Pattern(%s): %v", id, err)
		}
		if op != lp {
			t.Errorf("pattern for %s: loaded %q, original %q", id, lp, op)
		}
	}

	// The reconstructed registry generates URLs like the original.
	b := NewBuilder(loaded, nil)
	url, err := b.Build("@@PhotoEdit", resource.Args{"id": 42})
	if err != nil {
		t.Fatalf("Build from loaded registry: %v", err)
	}
	if want := "/photos/42/edit"; url != want {
		t.Errorf("Build(@@PhotoEdit) = %q, want %q", url, want)
	}
	url, err = b.Build("@@FirstPhoto", nil)
	if err != nil {
		t.Fatalf("Build alias from loaded registry: %v", err)
	}
	if want := "/photos/1"; url != want {
		t.Errorf("Build(@@FirstPhoto) = %q, want %q", url, want)
	}
}

func TestLoadSkipsBlankAndComments(t *testing.T) {
	in := `
# resources of the photo app
@@Home   : /
@@Photos : /photos/ : Photo index
`
	reg, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := []string{"@@Home", "@@Photos"}; !reflect.DeepEqual(reg.IDs(), want) {
		t.Errorf("IDs() = %v, want %v", reg.IDs(), want)
	}

	m, err := reg.Lookup("@@Photos")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if m.Terminal {
		t.Error("trailing-slash pattern loaded as terminal")
	}
	if m.Doc != "Photo index" {
		t.Errorf("doc = %q, want %q", m.Doc, "Photo index")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code string
	}{
		{"malformed line", "@@Home /\n", errors.CodeListingParse},
		{"bad pattern component", "@@X : /a/(b:c(d)\n", errors.CodeListingParse},
		{"duplicate id", "@@A : /a\n@@A : /b\n", errors.CodeDuplicateID},
		{"alias without target", "@@A : ->\n", errors.CodeListingParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			if !errors.IsCode(err, tt.code) {
				t.Errorf("Load(%q): err = %v, want code %s", tt.in, err, tt.code)
			}
		})
	}
}

func TestLoadURL(t *testing.T) {
	orig, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteListing(w, orig)
	}))
	defer srv.Close()

	reg, err := LoadURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("LoadURL: %v", err)
	}
	if !reflect.DeepEqual(reg.IDs(), orig.IDs()) {
		t.Errorf("loaded ids = %v, want %v", reg.IDs(), orig.IDs())
	}

	srv404 := httptest.NewServer(http.NotFoundHandler())
	defer srv404.Close()
	if _, err := LoadURL(context.Background(), srv404.URL); !errors.IsCode(err, errors.CodeListingFetch) {
		t.Errorf("LoadURL on 404: err = %v, want code %s", err, errors.CodeListingFetch)
	}
}
