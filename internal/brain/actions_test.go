package brain

import (
	"testing"
)

func TestExtractActions_NoTags(t *testing.T) {
	clean, actions := ExtractActions("nah we're good")
	if clean != "nah we're good" {
		t.Fatalf("clean = %q", clean)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %v", actions)
	}
}

func TestExtractActions_LookAt(t *testing.T) {
	clean, actions := ExtractActions("over there [ACTION:look_at:1,2,3]")
	if clean != "over there" {
		t.Fatalf("clean = %q", clean)
	}
	if len(actions) != 1 || actions[0].Name != "look_at" {
		t.Fatalf("actions = %v", actions)
	}
	p := actions[0].Params
	if p["x"] != 1.0 || p["y"] != 2.0 || p["z"] != 3.0 {
		t.Fatalf("params = %v", p)
	}
}

func TestExtractActions_LookAtWrongArity(t *testing.T) {
	clean, actions := ExtractActions("hmm [ACTION:look_at:1,2] ok")
	if clean != "hmm ok" {
		t.Fatalf("clean = %q", clean)
	}
	if len(actions) != 0 {
		t.Fatalf("expected tag stripped with no action, got %v", actions)
	}
}

func TestExtractActions_UnknownName(t *testing.T) {
	clean, actions := ExtractActions("sure [ACTION:dance] let's go")
	if clean != "sure let's go" {
		t.Fatalf("clean = %q", clean)
	}
	if len(actions) != 0 {
		t.Fatalf("expected unknown tag dropped, got %v", actions)
	}
}

func TestExtractActions_OrderPreserved(t *testing.T) {
	_, actions := ExtractActions("[ACTION:flee] run! [ACTION:send_chat:later nerds] [ACTION:eat]")
	want := []string{"flee", "send_chat", "eat"}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v", actions)
	}
	for i, name := range want {
		if actions[i].Name != name {
			t.Fatalf("actions[%d] = %q, want %q", i, actions[i].Name, name)
		}
	}
}

func TestExtractActions_SendChatEmptyParam(t *testing.T) {
	_, actions := ExtractActions("[ACTION:send_chat:]")
	if len(actions) != 1 {
		t.Fatalf("actions = %v", actions)
	}
	if msg, ok := actions[0].Params["message"]; !ok || msg != "" {
		t.Fatalf("params = %v", actions[0].Params)
	}
}

func TestExtractActions_AttackMob(t *testing.T) {
	_, actions := ExtractActions("[ACTION:attack_mob:zombie] then [ACTION:attack_mob]")
	if len(actions) != 2 {
		t.Fatalf("actions = %v", actions)
	}
	if actions[0].Params["name"] != "zombie" {
		t.Fatalf("filtered attack params = %v", actions[0].Params)
	}
	// No filter means nearest hostile: the name key is absent entirely.
	if _, ok := actions[1].Params["name"]; ok {
		t.Fatalf("unfiltered attack params = %v", actions[1].Params)
	}
}

func TestExtractActions_FollowPlayer(t *testing.T) {
	clean, actions := ExtractActions("[ACTION:follow_player:Steve] on my way")
	if clean != "on my way" {
		t.Fatalf("clean = %q", clean)
	}
	if len(actions) != 1 || actions[0].Params["name"] != "Steve" {
		t.Fatalf("actions = %v", actions)
	}
}
