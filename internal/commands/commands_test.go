// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"
)

func TestParse_NotACommand(t *testing.T) {
	p := NewParser(NewRegistry())

	for _, input := range []string{"hello", "이혼 소송 질문", "", "  plain text  "} {
		res := p.Parse(input)
		if res.IsCommand {
			t.Errorf("Parse(%q).IsCommand = true, want false", input)
		}
		if res.Intent() != IntentNone {
			t.Errorf("Parse(%q).Intent() = %v, want IntentNone", input, res.Intent())
		}
	}
}

func TestParse_KnownCommands(t *testing.T) {
	p := NewParser(NewRegistry())

	tests := []struct {
		input  string
		intent Intent
		arg    string
	}{
		{"/new", IntentNew, ""},
		{"/n", IntentNew, ""},
		{"/open 12", IntentOpen, "12"},
		{"/o 12", IntentOpen, "12"},
		{"/delete", IntentDelete, ""},
		{"/del 7", IntentDelete, "7"},
		{"/list", IntentList, ""},
		{"/ls", IntentList, ""},
		{"/export transcript.md", IntentExport, "transcript.md"},
		{"/help", IntentHelp, ""},
		{"/?", IntentHelp, ""},
		{"/quit", IntentQuit, ""},
		{"/exit", IntentQuit, ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			res := p.Parse(tc.input)
			if !res.IsCommand {
				t.Fatalf("Parse(%q).IsCommand = false", tc.input)
			}
			if res.Intent() != tc.intent {
				t.Errorf("Intent() = %v, want %v", res.Intent(), tc.intent)
			}
			if res.Arg(0) != tc.arg {
				t.Errorf("Arg(0) = %q, want %q", res.Arg(0), tc.arg)
			}
		})
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse("/frobnicate now")
	if !res.IsCommand {
		t.Fatal("unknown slash input should still be flagged as a command attempt")
	}
	if res.Command != nil {
		t.Error("unknown command should not match")
	}
	if res.CommandName != "/frobnicate" {
		t.Errorf("CommandName = %q", res.CommandName)
	}
}

func TestParse_QuotedArguments(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse(`/export "my transcript.md"`)
	if res.Arg(0) != "my transcript.md" {
		t.Errorf("quoted arg = %q, want %q", res.Arg(0), "my transcript.md")
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`/open 12`, []string{"/open", "12"}},
		{`/export 'a b.md'`, []string{"/export", "a b.md"}},
		{`/export "she said \"hi\""`, []string{"/export", `she said "hi"`}},
		{`/list`, []string{"/list"}},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitCommandLine(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRegistry_HelpTextListsEverything(t *testing.T) {
	r := NewRegistry()
	help := r.HelpText()

	for _, name := range []string{"/new", "/open", "/delete", "/list", "/export", "/help", "/quit"} {
		if !strings.Contains(help, name) {
			t.Errorf("HelpText missing %s", name)
		}
	}
}

func TestIsCommand(t *testing.T) {
	if !IsCommand("  /help") {
		t.Error("leading whitespace before / should still count")
	}
	if IsCommand("help") {
		t.Error("plain text is not a command")
	}
}
