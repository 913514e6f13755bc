package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_NotExist(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env"), ""); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("# comment\nSHELF_TEST_A=1\nSHELF_TEST_B=\"two words\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELF_TEST_A", "")
	t.Setenv("SHELF_TEST_B", "")
	os.Unsetenv("SHELF_TEST_A")
	os.Unsetenv("SHELF_TEST_B")

	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SHELF_TEST_A"); got != "1" {
		t.Fatalf("SHELF_TEST_A = %q", got)
	}
	if got := os.Getenv("SHELF_TEST_B"); got != "two words" {
		t.Fatalf("SHELF_TEST_B = %q", got)
	}
}

func TestLoadDotEnv_EnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	if err := os.WriteFile(first, []byte("SHELF_TEST_K=first\nSHELF_TEST_ONLY2=\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("SHELF_TEST_K=second\nSHELF_TEST_ENV=fromfile\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELF_TEST_ENV", "fromenv")
	t.Setenv("SHELF_TEST_K", "")
	os.Unsetenv("SHELF_TEST_K")

	if err := LoadDotEnv(first, second); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SHELF_TEST_K"); got != "first" {
		t.Fatalf("SHELF_TEST_K = %q, want first", got)
	}
	if got := os.Getenv("SHELF_TEST_ENV"); got != "fromenv" {
		t.Fatalf("SHELF_TEST_ENV = %q, want fromenv", got)
	}
}
