package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/moat/internal/domain"
)

// run executes the command tree with args in a clean directory and
// environment, returning stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{"MOAT_LOG_LEVEL", "MOAT_LOG_FILE", "MOAT_CATALOG", "MOAT_STYLE", "MOAT_SOUND"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--quiet", "--log-file", "stderr", "--style", "notty"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"01  infra-art", "11  head-architecture", "chaos 100"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "show", "9")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"PHASE 09", "Operational Protocol", "AI_REASONING_KILL_SWITCH", "Execute Sabotage"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q", want)
		}
	}

	out, err = run(t, "show", "infra-art")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Deployed") {
		t.Error("the seed recipe should render as deployed")
	}

	if _, err := run(t, "show", "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "flaky tests from seed",
			args: []string{"flaky-tests"},
			want: []string{"Job Security +9, System Chaos +16", "Job Security 19% | System Chaos 21% | 2/11 fortified"},
		},
		{
			name: "head architecture by number",
			args: []string{"11"},
			want: []string{"Job Security 19% | System Chaos 45% | 2/11 fortified"},
		},
		{
			name: "repeats and unknown ids are no-ops",
			args: []string{"flaky-tests", "flaky-tests", "nonexistent", "infra-art"},
			want: []string{"already deployed", "No mission called \"nonexistent\"", "Job Security 19% | System Chaos 21% | 2/11 fortified"},
		},
		{
			name: "everything maxes out",
			args: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
			want: []string{"Job Security 100%", "11/11 fortified", "vital organ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"play"}, tt.args...)...)
			if err != nil {
				t.Fatalf("play: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("play output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "--unlock", "flaky-tests,database-logic", "--select", "2")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "PHASE 02", "Job Security</span><span>28%"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderCommandToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moat.html")

	out, err := run(t, "render", "-o", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %d bytes", len(out))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading page: %v", err)
	}
	if !strings.Contains(string(data), "PHASE 01") {
		t.Error("page does not show the first mission")
	}
}

func TestAlternateCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := "- id: solo\n  level: 1\n  title: Solo Mission\n  chaosFactor: 50\n  content: [one]\n  tips: [two]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "--catalog", path, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "solo") || strings.Contains(out, "infra-art") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, "--catalog", bad, "list"); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestInvalidStyleFlag(t *testing.T) {
	if _, err := run(t, "--style", "neon", "list"); err == nil {
		t.Fatal("expected an error for an unknown style")
	}
}

func TestArgumentValidation(t *testing.T) {
	if _, err := run(t, "play"); err == nil {
		t.Fatal("play without arguments should fail")
	}
	if _, err := run(t, "show"); err == nil {
		t.Fatal("show without an argument should fail")
	}
}
