package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tetherui/tether/internal/app"
	"github.com/tetherui/tether/internal/config"
	"github.com/tetherui/tether/internal/log"
)

func testApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataPath, []byte(`{"Version": "1.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DataFile = dataPath
	cfg.Bindings = []config.Binding{{Path: "/Version"}}

	a, err := app.New(cfg, log.Null)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestView_QuitKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	v := NewWithScreen(screen, testApp(t))

	done := make(chan error, 1)
	go func() {
		done <- v.Run(context.Background())
	}()

	// Give the view a moment to initialize before injecting input.
	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after quit key")
	}
}

func TestView_CancelStops(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	v := NewWithScreen(screen, testApp(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- v.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
