package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel_AllVariants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel}, // case + trim
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel}, // empty -> info
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel}, // alias
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel}, // default
	}

	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLogger_AppliesLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	SetupLogger("error", false)
	if got := zerolog.GlobalLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("global level = %v; want error", got)
	}

	SetupLogger("debug", true)
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Fatalf("global level = %v; want debug", got)
	}
}
