package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	tu "github.com/michida/michida/internal/testing"
)

func newTestBackend(t *testing.T) *services.SupabaseService {
	t.Helper()

	backend, err := services.NewSupabaseService("https://example.test", "anon-key", nil)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return backend
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			backend := newTestBackend(t)
			prompter := &tu.ScriptedPrompter{}
			sink := &tu.CaptureSink{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Backend:  backend,
				Prompter: prompter,
				Sink:     sink,
				Logger:   logger,
				Output:   output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
			if runner.prompter != prompter {
				t.Error("expected prompter to be set")
			}
			if runner.sink != sink {
				t.Error("expected sink to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil sink writes envelopes to output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.sink.Post([]byte(`{"event":"command"}`)); err != nil {
				t.Fatalf("post failed: %v", err)
			}
			if got := output.String(); got != "{\"event\":\"command\"}\n" {
				t.Errorf("envelope line = %q", got)
			}
		})
	})

	t.Run("App", func(t *testing.T) {
		t.Run("without a backend", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, err := runner.App(); !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("builds once and reuses the tree", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Backend: newTestBackend(t),
				Output:  &bytes.Buffer{},
			})

			first, err := runner.App()
			if err != nil {
				t.Fatalf("expected app, got error %v", err)
			}
			second, err := runner.App()
			if err != nil {
				t.Fatalf("expected app, got error %v", err)
			}
			if first != second {
				t.Error("expected App to return the same instance")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", result)
			}
		})

		t.Run("returns error for unmarshalable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})

		t.Run("returns error when write fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"k": "v"}, false); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("returns error when newline write fails", func(t *testing.T) {
			w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &w})

			if err := runner.writeJSON(map[string]string{"k": "v"}, false); err == nil {
				t.Error("expected write error on the trailing newline")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("count: %d", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "count: 3" {
			t.Errorf("output = %q", output.String())
		}

		if err := runner.writePlainln("done"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasSuffix(output.String(), "done\n") {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("register wires every command group", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		commands := runner.register()

		want := []string{"setup", "auth", "feed", "play", "comment", "playlist", "recent", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("commands = %d, want %d", len(commands), len(want))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("command[%d] = %s, want %s", i, commands[i].Name, name)
			}
		}
	})
}
