package app

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectEditorCommandPrefersConfigured(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		return "/usr/bin/" + cmd, nil
	}
	getenv := func(key string) string {
		if key == "VISUAL" {
			return "emacs"
		}
		return ""
	}
	args, ok := detectEditorCommandInternal("linux", "nvim -p", getenv, lookPath)
	if !ok {
		t.Fatalf("expected configured editor")
	}
	expected := []string{"/usr/bin/nvim", "-p"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandSkipsMissingConfigured(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "hx" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + cmd, nil
	}
	getenv := func(key string) string {
		if key == "EDITOR" {
			return "nano"
		}
		return ""
	}
	args, ok := detectEditorCommandInternal("linux", "hx", getenv, lookPath)
	if !ok {
		t.Fatalf("expected $EDITOR fallback")
	}
	if !reflect.DeepEqual(args, []string{"/usr/bin/nano"}) {
		t.Fatalf("unexpected editor %v", args)
	}
}

func TestDetectEditorCommandWindowsFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "notepad.exe" {
			return `C:\Windows\notepad.exe`, nil
		}
		return "", errors.New("not found")
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("windows", "", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{`C:\Windows\notepad.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandUnixFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "vi" {
			return "/usr/bin/vi", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("linux", "", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{"/usr/bin/vi"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandNoneAvailable(t *testing.T) {
	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	getenv := func(string) string { return "" }
	if args, ok := detectEditorCommandInternal("linux", "", getenv, lookPath); ok || args != nil {
		t.Fatalf("expected no editor, got %v", args)
	}
}

func TestParseEditorCommandQuoting(t *testing.T) {
	tests := []struct {
		input  string
		expect []string
	}{
		{input: "", expect: nil},
		{input: "  vim  ", expect: []string{"vim"}},
		{input: `code --wait "my file"`, expect: []string{"code", "--wait", "my file"}},
		{input: `sh -c 'echo "hi"'`, expect: []string{"sh", "-c", `echo "hi"`}},
	}
	for _, tt := range tests {
		if got := parseEditorCommand(tt.input); !reflect.DeepEqual(got, tt.expect) {
			t.Fatalf("parseEditorCommand(%q) = %v, want %v", tt.input, got, tt.expect)
		}
	}
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandUserPath("~/bin/ed"); got != filepath.Join(home, "bin/ed") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandUserPath("~other/ed"); got != "~other/ed" {
		t.Fatalf("other users' homes must not expand, got %q", got)
	}
	if got := expandUserPath("/abs"); got != "/abs" {
		t.Fatalf("absolute path changed: %q", got)
	}
}
