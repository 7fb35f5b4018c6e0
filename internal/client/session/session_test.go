package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/RentVerify/internal/models"
)

func TestLoad_FileNotExist(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Current().Token != "" {
		t.Errorf("expected no token, got %q", s.Current().Token)
	}
}

func TestSetLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewStore(path)

	want := models.Session{Token: "t1", Role: models.RoleLandlord, UserID: "landlord-1"}
	if err := s.Set(want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Current(); got != want {
		t.Errorf("Current() = %+v; want %+v", got, want)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected session file to be removed, stat err = %v", err)
	}
	if reloaded.Current().Token != "" {
		t.Error("expected empty session after Clear")
	}
	if err := reloaded.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := NewStore(path).Load(); err == nil {
		t.Error("expected decode error")
	}
}
