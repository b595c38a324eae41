// Package envconfig reads omview settings from environment variables.
package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogLevel returns the log level derived from OM_DEBUG. A true value enables debug
// logging; an integer n sets the level to -4n.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("OM_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// Metadata is the path of an operator catalog replacing the built-in one.
	Metadata = String("OM_METADATA")
	// MaxFileSize is the largest model file accepted, in bytes. Zero disables the limit.
	MaxFileSize = Uint64("OM_MAX_FILE_SIZE", 4<<30)
	// Parallel is the number of files inspected concurrently.
	Parallel = Uint("OM_PARALLEL", 4)
)

// String returns a getter for a string variable.
func String(key string) func() string {
	return func() string {
		return Var(key)
	}
}

// Uint returns a getter for an unsigned variable. Invalid values log a warning and fall
// back to defaultValue.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Uint64 returns a getter for a 64-bit unsigned variable.
func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// EnvVar describes one environment variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every supported variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"OM_DEBUG":         {"OM_DEBUG", LogLevel(), "Show additional debug information (e.g. OM_DEBUG=1)"},
		"OM_METADATA":      {"OM_METADATA", Metadata(), "Path of an operator catalog JSON replacing the built-in one"},
		"OM_MAX_FILE_SIZE": {"OM_MAX_FILE_SIZE", MaxFileSize(), "Largest model file accepted in bytes, 0 for no limit (default 4 GiB)"},
		"OM_PARALLEL":      {"OM_PARALLEL", Parallel(), "Maximum number of files inspected concurrently (default 4)"},
	}
}

// Values returns the current values as strings.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmtValue(v.Value)
	}
	return vals
}

func fmtValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case slog.Level:
		return v.String()
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return ""
	}
}

// Var returns an environment variable stripped of leading and trailing quotes or spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
