package mapper

import (
	"testing"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/report"
	"github.com/mappa-dev/mappa/pkg/resource"
)

func TestBuilderBuild(t *testing.T) {
	reg, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBuilder(reg, nil)

	tests := []struct {
		name string
		id   string
		args resource.Lookup
		want string
	}{
		{"root resource", "@@Home", nil, "/"},
		{"fixed path", "@@Search", nil, "/search"},
		{"typed variable", "@@PhotoView", resource.Args{"id": 42}, "/photos/42"},
		{"string value for int variable", "@@PhotoView", resource.Args{"id": "42"}, "/photos/42"},
		{"nested", "@@PhotoEdit", resource.Args{"id": 7}, "/photos/7/edit"},
		{"folder root keeps trailing slash", "@@Admin", nil, "/admin/"},
		{"alias fills fixed value", "@@FirstPhoto", nil, "/photos/1"},
		{"alias fixed value wins", "@@FirstPhoto", resource.Args{"id": 9}, "/photos/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Build(tt.id, tt.args)
			if err != nil {
				t.Fatalf("Build(%s): %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Build(%s) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	reg, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBuilder(reg, nil)

	tests := []struct {
		name string
		id   string
		args resource.Lookup
		code string
	}{
		{"unknown id", "@@Nope", nil, errors.CodeUnknownID},
		{"missing argument", "@@PhotoView", nil, errors.CodeMissingArg},
		{"type mismatch", "@@PhotoView", resource.Args{"id": "wilber"}, errors.CodeTypeMismatch},
		{"unformattable value", "@@UserView", resource.Args{"name": struct{}{}}, errors.CodeTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.id, tt.args)
			if !errors.IsCode(err, tt.code) {
				t.Errorf("Build(%s): err = %v, want code %s", tt.id, err, tt.code)
			}
		})
	}
}

func TestBuilderRootLocation(t *testing.T) {
	reg, err := Build(testTree(), WithRootLocation("/app"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBuilder(reg, nil)

	got, err := b.Build("@@PhotoView", resource.Args{"id": 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := "/app/photos/3"; got != want {
		t.Errorf("Build(@@PhotoView) = %q, want %q", got, want)
	}

	got, err = b.Build("@@Home", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := "/app/"; got != want {
		t.Errorf("Build(@@Home) = %q, want %q", got, want)
	}
}

func TestBuilderExternal(t *testing.T) {
	reg, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := reg.AddStatic("@@Logo", "https://static.example.com/logo.png"); err != nil {
		t.Fatalf("AddStatic: %v", err)
	}
	b := NewBuilder(reg, nil)

	got, err := b.Build("@@Logo", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := "https://static.example.com/logo.png"; got != want {
		t.Errorf("Build(@@Logo) = %q, want %q", got, want)
	}
}

func TestBuilderRenderEvents(t *testing.T) {
	reg, err := Build(testTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	chain := report.NewChain(nil)
	rec := &eventRecorder{}
	chain.Add(rec)
	b := NewBuilder(reg, chain)

	// The render event names the requested id, not the alias target.
	if _, err := b.Build("@@FirstPhoto", nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := "rendered @@FirstPhoto"; len(rec.events) != 1 || rec.events[0] != want {
		t.Errorf("events = %v, want [%s]", rec.events, want)
	}

	// A failed generation fires no event.
	rec.events = nil
	if _, err := b.Build("@@PhotoView", nil); err == nil {
		t.Fatal("Build succeeded without required argument")
	}
	if len(rec.events) != 0 {
		t.Errorf("events after failed generation: %v", rec.events)
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	reg, err := Build(testTree(), WithRootLocation("/app"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBuilder(reg, nil)

	url, err := b.Build("@@PhotoEdit", resource.Args{"id": 42})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	vars, ok := reg.Match("@@PhotoEdit", url)
	if !ok {
		t.Fatalf("generated URL %q does not match its own resource", url)
	}
	if vars["id"] != 42 {
		t.Errorf("round-tripped id = %v, want 42", vars["id"])
	}
}
