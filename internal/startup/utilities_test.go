package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// Env helpers
// =============================================================================

func TestGetEnv(t *testing.T) {
	t.Setenv("ASSET_TEST_SET", "custom")
	t.Setenv("ASSET_TEST_EMPTY", "")

	if got := getEnv("ASSET_TEST_SET", "default"); got != "custom" {
		t.Errorf("getEnv(set) = %q", got)
	}
	if got := getEnv("ASSET_TEST_EMPTY", "default"); got != "default" {
		t.Errorf("getEnv(empty) = %q, want default", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"T", false, true},
		{"FALSE", true, false},
		{"not-a-bool", true, true},
		{"   ", true, true},
		{"yes", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv("ASSET_TEST_BOOL", tt.envValue)
			if got := getEnvBool("ASSET_TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.envValue, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		envValue string
		want     int
	}{
		{"", 7},
		{"512", 512},
		{" 64 ", 64},
		{"-1", -1},
		{"12px", 7},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv("ASSET_TEST_INT", tt.envValue)
			if got := getEnvInt("ASSET_TEST_INT", 7); got != tt.want {
				t.Errorf("getEnvInt(%q) = %d, want %d", tt.envValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		envValue string
		want     time.Duration
	}{
		{"", time.Second},
		{"3s", 3 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"0s", time.Second},
		{"-2s", time.Second},
		{"2001", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv("ASSET_TEST_DURATION", tt.envValue)
			if got := getEnvDuration("ASSET_TEST_DURATION", time.Second); got != tt.want {
				t.Errorf("getEnvDuration(%q) = %v, want %v", tt.envValue, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a", []string{"a"}},
		{"b, a ,b,c", []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitList(tt.in)); diff != "" {
			t.Errorf("splitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// =============================================================================
// Directory checks
// =============================================================================

func TestEnsureDirectory(t *testing.T) {
	root := t.TempDir()

	nested := filepath.Join(root, "a", "b")
	if err := ensureDirectory(nested, "data"); err != nil {
		t.Fatalf("ensureDirectory(create) error = %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}

	if err := ensureDirectory(nested, "data"); err != nil {
		t.Errorf("ensureDirectory(existing) error = %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureDirectory(file, "data"); err == nil {
		t.Error("ensureDirectory(file) should fail")
	}
}

func TestTestWriteAccess(t *testing.T) {
	dir := t.TempDir()
	if err := testWriteAccess(dir); err != nil {
		t.Fatalf("testWriteAccess() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write-test file was left behind")
	}

	if err := testWriteAccess(filepath.Join(dir, "missing")); err == nil {
		t.Error("testWriteAccess(missing dir) should fail")
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkGetEnv(b *testing.B) {
	b.Setenv("ASSET_BENCH_VAR", "value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnv("ASSET_BENCH_VAR", "default")
	}
}

func BenchmarkSplitList(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = splitList("mod-a, mod-b, mod-c, mod-a")
	}
}
