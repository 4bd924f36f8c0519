package internal

import "testing"

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"error": LogLevelError,
		"WARN":  LogLevelWarn,
		"":      LogLevelInfo,
		"bogus": LogLevelInfo,
		"debug": LogLevelDebug,
		"TRACE": LogLevelTrace,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestLoggerWithKeepsLevel(t *testing.T) {
	l := NewLogger(LogLevelDebug).With("simulator")
	if l.GetLevel() != LogLevelDebug {
		t.Errorf("expected debug level, got %d", l.GetLevel())
	}
}
