package roadmap

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(PromptInput{Topic: "Go concurrency", Level: "intermediate", Skills: []string{"goroutines", " ", "channels"}})

	for _, want := range []string{
		`"Go concurrency"`,
		"level intermediate",
		"target skills: goroutines, channels.",
		`"video", "article", "exercise"`,
		"trailing commas",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildPromptDefaults(t *testing.T) {
	p := BuildPrompt(PromptInput{Topic: "x"})
	if !strings.Contains(p, "level beginner") {
		t.Fatalf("expected default level, got:\n%s", p)
	}
	if !strings.Contains(p, "target skills: none specified.") {
		t.Fatalf("expected empty skill marker, got:\n%s", p)
	}
}

func TestValidLevel(t *testing.T) {
	for _, ok := range []string{"beginner", "Intermediate", " advanced "} {
		if !ValidLevel(ok) {
			t.Errorf("ValidLevel(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "expert", "beginner!"} {
		if ValidLevel(bad) {
			t.Errorf("ValidLevel(%q) = true", bad)
		}
	}
}
