// Package ocr runs external OCR engines over receipt images.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
)

// ErrNoEngine is returned when no configured engine could read an image.
var ErrNoEngine = errors.New("no OCR engine available")

// Engine extracts raw text from an image file.
type Engine interface {
	Text(ctx context.Context, imagePath string) (string, error)
	Name() string
}

// Registry holds named engines.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds an engine. Panics on duplicate name.
func (r *Registry) Register(e Engine) {
	key := strings.ToLower(e.Name())
	if _, ok := r.engines[key]; ok {
		panic("duplicate OCR engine: " + key)
	}
	r.engines[key] = e
}

// Get returns the engine registered under name, or nil.
func (r *Registry) Get(name string) Engine {
	return r.engines[strings.ToLower(name)]
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for k := range r.engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Chain builds a Chain from the named engines, in order.
func (r *Registry) Chain(names []string, logger *slog.Logger) (*Chain, error) {
	engines := make([]Engine, 0, len(names))
	for _, n := range names {
		e := r.Get(n)
		if e == nil {
			return nil, fmt.Errorf("unknown OCR engine %q (known: %s)", n, strings.Join(r.Names(), ", "))
		}
		engines = append(engines, e)
	}
	return NewChain(logger, engines...), nil
}

// Available returns the names of engines whose binary is on PATH.
func (r *Registry) Available() []string {
	var names []string
	for _, n := range r.Names() {
		if b, ok := r.engines[n].(interface{ Binary() string }); ok {
			if _, err := exec.LookPath(b.Binary()); err != nil {
				continue
			}
		}
		names = append(names, n)
	}
	return names
}

// DefaultRegistry returns a registry with the built-in tesseract engine for lang.
func DefaultRegistry(lang string) *Registry {
	r := NewRegistry()
	r.Register(&Tesseract{Lang: lang})
	return r
}

// Chain tries engines in order and returns the first successful reading.
type Chain struct {
	engines []Engine
	logger  *slog.Logger
}

// NewChain creates a Chain. A nil logger discards output.
func NewChain(logger *slog.Logger, engines ...Engine) *Chain {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Chain{engines: engines, logger: logger}
}

// Name lists the chained engines.
func (c *Chain) Name() string {
	names := make([]string, len(c.engines))
	for i, e := range c.engines {
		names[i] = e.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Text returns the text of the first engine that succeeds.
func (c *Chain) Text(ctx context.Context, imagePath string) (string, error) {
	errs := []error{ErrNoEngine}
	for _, e := range c.engines {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := e.Text(ctx, imagePath)
		if err == nil {
			c.logger.Debug("ocr engine succeeded", "engine", e.Name(), "image", imagePath, "chars", len(text))
			return text, nil
		}
		c.logger.Warn("ocr engine failed", "engine", e.Name(), "image", imagePath, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}
	return "", errors.Join(errs...)
}
