package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegisteredCode(t *testing.T) {
	err := New(CodeDuplicateID)
	if err.Code != CodeDuplicateID {
		t.Errorf("Code = %q, want %q", err.Code, CodeDuplicateID)
	}
	if err.Category != CategoryBuild {
		t.Errorf("Category = %q, want %q", err.Category, CategoryBuild)
	}
	if err.Message == "" {
		t.Error("expected non-empty message from template")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("Z999")
	if err.Code != "Z999" {
		t.Errorf("Code = %q, want Z999", err.Code)
	}
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeNotFound).WithMessagef("no resource for %q", "/nope")
	got := err.Error()
	if !strings.Contains(got, CodeNotFound) {
		t.Errorf("Error() = %q, want code prefix", got)
	}
	if !strings.Contains(got, "/nope") {
		t.Errorf("Error() = %q, want formatted message", got)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := stderrors.New("boom")
	err := New(CodeStoreIO).Wrap(inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var me *MappaError
	if !stderrors.As(err, &me) {
		t.Fatal("errors.As should match *MappaError")
	}
	if me.Code != CodeStoreIO {
		t.Errorf("Code = %q, want %q", me.Code, CodeStoreIO)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", stderrors.New("x"), ""},
		{"mappa", New(CodeCyclicAlias), CodeCyclicAlias},
		{"wrapped", FromError(stderrors.New("x"), CodeListingFetch), CodeListingFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeMissingArg)
	if !IsCode(err, CodeMissingArg) {
		t.Error("IsCode should match the error's own code")
	}
	if IsCode(err, CodeTypeMismatch) {
		t.Error("IsCode should not match a different code")
	}
}

func TestFromErrorPassthrough(t *testing.T) {
	orig := New(CodeNotFound)
	if got := FromError(orig, CodeStoreIO); got != orig {
		t.Error("FromError should pass through an existing MappaError")
	}
	if FromError(nil, CodeStoreIO) != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestFormatPlain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeUnknownID).
		WithMessagef("unknown resource-id %q", "@@Bogus").
		WithLocation("handlers.go", 42).
		WithSuggestion("run 'mappa grep' to list known ids")

	out := err.Format()
	for _, want := range []string{"M003", "@@Bogus", "handlers.go:42", "hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}
