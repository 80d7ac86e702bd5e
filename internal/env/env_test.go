package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
)

func TestFindCompanions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Character.wz", "Character_001.wz", "Character_010.wz", "Item.wz", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindCompanions(dir, "Character")
	if err != nil {
		t.Fatal(err)
	}
	want := []Companion{
		{Path: filepath.Join(dir, "Character.wz"), Index: 0},
		{Path: filepath.Join(dir, "Character_001.wz"), Index: 1},
		{Path: filepath.Join(dir, "Character_010.wz"), Index: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindCompanions mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCompanionsNoMatches(t *testing.T) {
	dir := t.TempDir()
	got, err := FindCompanions(dir, "Character")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("FindCompanions on empty dir = %v, want none", got)
	}
}

func TestIV(t *testing.T) {
	t.Setenv("WZIV", "")
	if _, ok := IV(); ok {
		t.Error("IV() with WZIV unset should report !ok")
	}

	t.Setenv("WZIV", "gms")
	got, ok := IV()
	if !ok {
		t.Fatal("IV() with WZIV=gms should report ok")
	}
	if got != wzcrypto.IVGMS {
		t.Errorf("IV() = %v, want IVGMS", got)
	}

	t.Setenv("WZIV", "nonexistent-region")
	if _, ok := IV(); ok {
		t.Error("IV() with an unknown WZIV should report !ok")
	}
}

func TestBaseWzPath(t *testing.T) {
	got := BaseWzPath("/srv/wz")
	want := filepath.Join("/srv/wz", "Base.wz")
	if got != want {
		t.Errorf("BaseWzPath() = %q, want %q", got, want)
	}
}
