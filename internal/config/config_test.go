package config

import (
	"testing"
	"time"
)

func TestParseCooldowns(t *testing.T) {
	got, err := parseCooldowns("mob_spawn=2m, player_death=10s")
	if err != nil {
		t.Fatal(err)
	}
	if got["mob_spawn"] != 2*time.Minute {
		t.Fatalf("mob_spawn = %v", got["mob_spawn"])
	}
	if got["player_death"] != 10*time.Second {
		t.Fatalf("player_death = %v", got["player_death"])
	}
}

func TestParseCooldowns_Empty(t *testing.T) {
	got, err := parseCooldowns("")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
}

func TestParseCooldowns_Invalid(t *testing.T) {
	if _, err := parseCooldowns("mob_spawn"); err == nil {
		t.Fatal("expected error for missing value")
	}
	if _, err := parseCooldowns("mob_spawn=soon"); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "  hello ")
	t.Setenv("X_INT", "7")
	t.Setenv("X_FLOAT", "0.8")
	t.Setenv("X_DUR", "45s")
	t.Setenv("X_BAD", "nope")

	if got := envString("X_STR", "d"); got != "hello" {
		t.Fatalf("envString = %q", got)
	}
	if got := envInt("X_INT", 1); got != 7 {
		t.Fatalf("envInt = %d", got)
	}
	if got := envInt("X_BAD", 1); got != 1 {
		t.Fatalf("envInt fallback = %d", got)
	}
	if got := envFloat("X_FLOAT", 0); got != 0.8 {
		t.Fatalf("envFloat = %v", got)
	}
	if got := envDuration("X_DUR", 0); got != 45*time.Second {
		t.Fatalf("envDuration = %v", got)
	}
	if got := envDuration("X_MISSING", time.Minute); got != time.Minute {
		t.Fatalf("envDuration fallback = %v", got)
	}
}
