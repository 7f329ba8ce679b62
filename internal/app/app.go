// Package app assembles the model, metadata resolver, bindings, and
// optional file watcher into a running application.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/tetherui/tether/internal/binding"
	"github.com/tetherui/tether/internal/config"
	"github.com/tetherui/tether/internal/format"
	"github.com/tetherui/tether/internal/log"
	"github.com/tetherui/tether/internal/metadata"
	"github.com/tetherui/tether/internal/model"
	"github.com/tetherui/tether/internal/notify"
	"github.com/tetherui/tether/internal/watch"
)

// App owns the bound document and its property bindings.
type App struct {
	cfg    *config.Config
	logger *log.Logger

	mdl      *model.JSONModel
	resolver *metadata.Resolver
	bindings []*binding.PropertyBinding

	// formatters tracks Lua formatters for teardown.
	formatters []*format.LuaFormatter

	watcher *watch.Watcher
	events  chan notify.Event
	subs    []*notify.Subscription
}

// New builds an App from configuration. The data file must exist and
// hold valid JSON.
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Null
	}

	doc, err := os.ReadFile(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	mdl, err := model.NewJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("data file %s: %w", cfg.DataFile, err)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		mdl:    mdl,
		events: make(chan notify.Event, 256),
	}

	if cfg.MetadataFile != "" {
		meta, err := os.ReadFile(cfg.MetadataFile)
		if err != nil {
			return nil, fmt.Errorf("reading metadata file: %w", err)
		}
		a.resolver, err = metadata.NewResolver(meta)
		if err != nil {
			return nil, fmt.Errorf("metadata file %s: %w", cfg.MetadataFile, err)
		}
	}

	for i, decl := range cfg.Bindings {
		b, err := a.buildBinding(decl)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("binding %d (%s): %w", i, decl.Path, err)
		}
		a.bindings = append(a.bindings, b)
	}

	return a, nil
}

// buildBinding turns one declaration into a live binding subscribed to
// the app's event stream.
func (a *App) buildBinding(decl config.Binding) (*binding.PropertyBinding, error) {
	opts := []binding.Option{
		binding.WithLogger(a.logger.WithComponent("binding")),
	}

	if decl.Context != "" {
		opts = append(opts, binding.WithContext(model.NewContext(decl.Context)))
	}
	if decl.Type != "" {
		typ, err := metadata.TypeByName(decl.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, binding.WithType(typ))
	}
	if decl.Formatter != "" {
		f, err := format.NewLua(decl.Formatter)
		if err != nil {
			return nil, err
		}
		a.formatters = append(a.formatters, f)
		opts = append(opts, binding.WithFormatter(f))
	}
	if decl.AutoType && a.resolver != nil {
		opts = append(opts, binding.WithTypeResolver(a.resolver), binding.WithAutoTypeDetect())
	}

	b, err := binding.NewProperty(a.mdl, decl.Path, opts...)
	if err != nil {
		return nil, err
	}

	sub := b.OnChange(func(event notify.Event) {
		select {
		case a.events <- event:
		default:
			// A slow consumer drops events rather than blocking
			// binding delivery.
		}
	})
	a.subs = append(a.subs, sub)
	return b, nil
}

// Bindings returns the app's property bindings.
func (a *App) Bindings() []*binding.PropertyBinding {
	return a.bindings
}

// Events returns the merged change event stream of all bindings.
func (a *App) Events() <-chan notify.Event {
	return a.events
}

// Logger returns the application logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// RefreshAll requests an update on every binding. The returned channel
// closes once every value fetch has settled.
func (a *App) RefreshAll(force bool) <-chan struct{} {
	done := make(chan struct{})
	pending := make([]<-chan struct{}, 0, len(a.bindings))
	for _, b := range a.bindings {
		pending = append(pending, b.CheckUpdate(force))
	}
	go func() {
		defer close(done)
		for _, ch := range pending {
			<-ch
		}
	}()
	return done
}

// Run starts live reload (when configured) and blocks until ctx is
// canceled.
func (a *App) Run(ctx context.Context) error {
	<-a.RefreshAll(false)

	if a.cfg.Watch.Enabled {
		w, err := watch.New(a.cfg.DataFile, watch.WithDebounce(a.cfg.Watch.Debounce()))
		if err != nil {
			return fmt.Errorf("watching %s: %w", a.cfg.DataFile, err)
		}
		a.watcher = w
		w.OnChange(func(event watch.Event) {
			a.reload(event.Path)
		})
		a.logger.Info("watching %s", a.cfg.DataFile)
	}

	<-ctx.Done()
	return nil
}

// reload re-reads the data file and refreshes every binding.
func (a *App) reload(path string) {
	doc, err := os.ReadFile(path)
	if err != nil {
		a.logger.Warn("reload: reading %s: %v", path, err)
		return
	}
	if err := a.mdl.Reload(doc); err != nil {
		a.logger.Warn("reload: %s: %v", path, err)
		return
	}
	a.logger.Debug("reloaded %s", path)
	a.RefreshAll(false)
}

// Status describes one binding for display.
type Status struct {
	Path     string
	TypeName string
	Text     string
	HasValue bool
}

// Snapshot renders the current state of every binding.
func (a *App) Snapshot() []Status {
	out := make([]Status, 0, len(a.bindings))
	for _, b := range a.bindings {
		s := Status{
			Path:     b.Path(),
			HasValue: b.HasValue(),
		}
		if typ := b.Type(); typ != nil {
			s.TypeName = typ.Name()
		}
		text, err := b.FormattedValue()
		if err != nil {
			text = fmt.Sprintf("<format error: %v>", err)
		}
		s.Text = text
		out = append(out, s)
	}
	return out
}

// Close tears the app down: watcher first, then bindings, then
// formatters.
func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	for _, b := range a.bindings {
		b.Close()
	}
	for _, f := range a.formatters {
		f.Close()
	}
}
