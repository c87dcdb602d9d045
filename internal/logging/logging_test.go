package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_FormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New()
	log.SetOutput(&buf)
	log = log.WithComponent("registry")

	log.Info("agent_registered", map[string]interface{}{"agent": "general"})

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected level in output: %q", out)
	}
	if !strings.Contains(out, "[registry]") {
		t.Errorf("expected component in output: %q", out)
	}
	if !strings.Contains(out, "agent=general") {
		t.Errorf("expected field in output: %q", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New()
	log.SetOutput(&buf)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug must be filtered at default level, got %q", buf.String())
	}

	log.SetLevel(LevelDebug)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("expected debug output after lowering level")
	}
}

func TestLogger_RoundHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := New()
	log.SetOutput(&buf)

	log.RoundStart("trade", "soldier-momentum")
	log.RoundComplete("trade", "soldier-momentum", 125*time.Millisecond, true)
	log.ValidationFallback("news", "lt-news", errors.New("no JSON object found"))
	log.HierarchyError("compose", "orphan", errors.New("broken hierarchy"))

	out := buf.String()
	for _, want := range []string{"round_start", "round_complete", "fallback=true", "validation_fallback", "hierarchy_error"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
