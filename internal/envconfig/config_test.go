package envconfig

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"t":     slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
		"bogus": slog.LevelInfo,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("OM_DEBUG", k)
			if i := LogLevel(); i != v {
				t.Errorf("%s: expected %d, got %d", k, v, i)
			}
		})
	}
}

func TestVar(t *testing.T) {
	cases := map[string]string{
		"value":       "value",
		" value ":     "value",
		" 'value' ":   "value",
		` "value" `:   "value",
		" ' value ' ": " value ",
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("OM_VAR", k)
			if s := Var("OM_VAR"); s != v {
				t.Errorf("%s: expected %q, got %q", k, v, s)
			}
		})
	}
}

func TestMaxFileSize(t *testing.T) {
	cases := map[string]uint64{
		"":        4 << 30,
		"0":       0,
		"1048576": 1 << 20,
		"-1":      4 << 30,
		"big":     4 << 30,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("OM_MAX_FILE_SIZE", k)
			if got := MaxFileSize(); got != v {
				t.Errorf("%s: expected %d, got %d", k, v, got)
			}
		})
	}
}

func TestParallel(t *testing.T) {
	t.Setenv("OM_PARALLEL", "")
	if got := Parallel(); got != 4 {
		t.Errorf("expected default 4, got %d", got)
	}

	t.Setenv("OM_PARALLEL", "16")
	if got := Parallel(); got != 16 {
		t.Errorf("expected 16, got %d", got)
	}
}

func TestValues(t *testing.T) {
	t.Setenv("OM_DEBUG", "")
	t.Setenv("OM_METADATA", "/tmp/catalog.json")
	t.Setenv("OM_MAX_FILE_SIZE", "")
	t.Setenv("OM_PARALLEL", "2")

	want := map[string]string{
		"OM_DEBUG":         "INFO",
		"OM_METADATA":      "/tmp/catalog.json",
		"OM_MAX_FILE_SIZE": "4294967296",
		"OM_PARALLEL":      "2",
	}
	if diff := cmp.Diff(want, Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}
