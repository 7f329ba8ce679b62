// Package tui renders live binding values in the terminal.
//
// The view draws one row per binding (path, type, formatted value) and
// redraws whenever any binding delivers a change event. It owns the
// terminal for the duration of Run.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tetherui/tether/internal/app"
)

// View is a live terminal view over an App's bindings.
type View struct {
	screen tcell.Screen
	app    *app.App
}

// New creates a view on the default terminal screen.
func New(a *app.App) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &View{screen: screen, app: a}, nil
}

// NewWithScreen creates a view on a caller-supplied screen. Tests use
// this with tcell's simulation screen.
func NewWithScreen(screen tcell.Screen, a *app.App) *View {
	return &View{screen: screen, app: a}
}

// Run takes over the screen until ctx is canceled or the user quits
// with q, Escape, or Ctrl-C.
func (v *View) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer v.screen.Fini()

	termEvents := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case termEvents <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	v.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-v.app.Events():
			v.draw()
		case ev := <-termEvents:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				v.draw()
			case *tcell.EventKey:
				if v.isQuit(ev) {
					return nil
				}
			}
		}
	}
}

func (v *View) isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	default:
		return false
	}
}

// draw repaints the whole view from the app's current snapshot.
func (v *View) draw() {
	v.screen.Clear()

	header := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	value := tcell.StyleDefault

	v.drawText(0, 0, header, "tether - bound properties (q to quit)")

	width, _ := v.screen.Size()
	row := 2
	for _, s := range v.app.Snapshot() {
		label := s.Path
		if s.TypeName != "" {
			label += " [" + s.TypeName + "]"
		}
		text := s.Text
		if !s.HasValue {
			text = "<none>"
		}

		v.drawText(0, row, dim, label)
		col := len(label) + 2
		if col < width {
			v.drawText(col, row, value, text)
		}
		row++
	}

	v.screen.Show()
}

// drawText writes a string starting at (x, y), clipped to the screen.
func (v *View) drawText(x, y int, style tcell.Style, text string) {
	width, height := v.screen.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
