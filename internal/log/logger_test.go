package log

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"DEBUG":   Debug,
		"info":    Info,
		"":        Info,
		"warn":    Warn,
		"warning": Warn,
		"error":   Error,
		"err":     Error,
		"unknown": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestInitFromEnvFallback_EnvWins(t *testing.T) {
	t.Setenv("TASKWEB_LOG_LEVEL", "error")
	defer SetLevel(Info)
	InitFromEnvFallback("debug")
	if CurrentLevel() != Error {
		t.Fatalf("expected env level error, got %v", CurrentLevel())
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(Info)

	SetLevel(Warn)
	Infof("hidden %d", 1)
	Warnf("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestSetOutputWhileLogging(t *testing.T) {
	defer SetOutput(os.Stderr)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Infof("worker %d line %d", n, j)
				With("worker", n).Infof("keyed")
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		SetOutput(io.Discard)
	}
	wg.Wait()

	var buf bytes.Buffer
	SetOutput(&buf)
	Warnf("after swap")
	if !strings.Contains(buf.String(), "after swap") {
		t.Fatalf("output not redirected: %q", buf.String())
	}
}
