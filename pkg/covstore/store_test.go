package covstore

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mappa-dev/mappa/internal/errors"
)

// exerciseStore runs the backend-independent Store contract.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	rec, err := s.Get("@@Home")
	if err != nil {
		t.Fatalf("Get on empty store: %v", err)
	}
	if rec.Accessed || rec.Rendered {
		t.Fatalf("empty store returned %+v", rec)
	}

	if err := s.Mark("@@Home", true, false); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := s.Mark("@@Home", false, true); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	// Marks are monotonic: a later all-false mark clears nothing.
	if err := s.Mark("@@Home", false, false); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := s.Mark("@@Photos", false, true); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := map[string]Record{
		"@@Home":   {Accessed: true, Rendered: true},
		"@@Photos": {Rendered: true},
	}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("All() = %v, want %v", all, want)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	all, err = s.All()
	if err != nil {
		t.Fatalf("All after reset: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("All after reset = %v, want empty", all)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestBoltStoreSuccessReturnsUntypedNil(t *testing.T) {
	// A typed-nil *MappaError escaping as a non-nil error interface
	// would make every successful write look like a failure to the
	// coverage reporter.
	path := filepath.Join(t.TempDir(), "coverage.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	if err := s.Mark("@@Home", true, false); err != nil {
		t.Errorf("Mark on success returned non-nil error: %#v", err)
	}
	if err := s.Reset(); err != nil {
		t.Errorf("Reset on success returned non-nil error: %#v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on success returned non-nil error: %#v", err)
	}
}

func TestBoltStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.db")

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	if err := s.Mark("@@Home", true, true); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rec, err := s.Get("@@Home")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.Accessed || !rec.Rendered {
		t.Errorf("record did not survive reopen: %+v", rec)
	}
}

func TestS3Store(t *testing.T) {
	s := NewS3(nil, "bucket", "coverage.json")
	exerciseStore(t, s)
}

func TestS3FlushWithoutChangesSkipsPut(t *testing.T) {
	// A nil client would panic on any API call; Flush on a clean store
	// must not touch it.
	s := NewS3(nil, "bucket", "coverage.json")
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush on clean store: %v", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		conn    string
		wantErr bool
	}{
		{"mem://", false},
		{"bolt://" + filepath.Join(t.TempDir(), "c.db"), false},
		{"bolt://", true},
		{"dbm://whatever", true},
		{"not-a-conn-string", true},
	}
	for _, tt := range tests {
		t.Run(tt.conn, func(t *testing.T) {
			s, err := Open(tt.conn)
			if tt.wantErr {
				if !errors.IsCode(err, errors.CodeBadConnString) {
					t.Errorf("Open(%q): err = %v, want code %s", tt.conn, err, errors.CodeBadConnString)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q): %v", tt.conn, err)
			}
			s.Close()
		})
	}
}
