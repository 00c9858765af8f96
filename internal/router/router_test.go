// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"
)

func knownSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestResolve_KnownID(t *testing.T) {
	res := Resolve("#/chat/12", knownSet("12", "13"), "13")

	if res.Action != ActionSelect || res.ID != "12" {
		t.Fatalf("got %+v, want select 12", res)
	}
	if !res.CloseOverlay {
		t.Error("selection must close the navigation overlay")
	}
	if res.Fragment != "" {
		t.Errorf("canonical fragment should not redirect, got %q", res.Fragment)
	}
}

func TestResolve_NewFragment(t *testing.T) {
	res := Resolve("#/chat/new", knownSet("12"), "12")

	if res.Action != ActionCreate {
		t.Fatalf("got %+v, want create", res)
	}
}

func TestResolve_UnknownID_SelfHeals(t *testing.T) {
	res := Resolve("#/chat/999", knownSet("12"), "12")

	if res.Action != ActionNone {
		t.Fatalf("unknown id must not change selection, got %+v", res)
	}
	if res.Fragment != "#/chat/12" {
		t.Errorf("fragment should heal to active, got %q", res.Fragment)
	}
}

func TestResolve_EmptyFragment_RedirectsToActive(t *testing.T) {
	res := Resolve("", knownSet("12"), "12")

	if res.Action != ActionNone || res.Fragment != "#/chat/12" {
		t.Fatalf("got %+v, want redirect to #/chat/12", res)
	}
}

func TestResolve_GarbageFragment_SelfHeals(t *testing.T) {
	for _, frag := range []string{"#/settings", "#/chat/", "not-a-fragment", "#chat/12"} {
		res := Resolve(frag, knownSet("12"), "12")
		if res.Action != ActionNone || res.Fragment != "#/chat/12" {
			t.Errorf("Resolve(%q) = %+v, want self-heal to active", frag, res)
		}
	}
}

func TestResolve_NoActive_FallsBackToCreate(t *testing.T) {
	res := Resolve("", knownSet(), "")

	if res.Action != ActionCreate {
		t.Fatalf("with no conversations at all, resolution must create, got %+v", res)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	known := knownSet("12")

	first := Resolve("#/chat/12", known, "12")
	second := Resolve("#/chat/12", known, "12")

	if first != second {
		t.Errorf("replaying the same fragment must resolve identically: %+v vs %+v", first, second)
	}
	if second.Action != ActionSelect || second.ID != "12" {
		t.Errorf("re-selecting the active conversation is a harmless select, got %+v", second)
	}
}

func TestForConversation_RoundTrip(t *testing.T) {
	frag := ForConversation("42")
	res := Resolve(frag, knownSet("42"), "42")

	if res.Action != ActionSelect || res.ID != "42" {
		t.Fatalf("round trip failed: %+v", res)
	}
}
