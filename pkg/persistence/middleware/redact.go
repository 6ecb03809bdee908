package middleware

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/aretw0/actionpack/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks, before saving, the
// values of mapping keys matching any of the patterns. Only the spine leading
// to a masked key is copied; the caller's state is never modified.
func NewRedactMiddleware(patterns ...string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, state any) error {
	masked, _ := m.mask(state)
	return m.next.Save(ctx, sessionID, masked)
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (any, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// mask returns v with sensitive keys masked and whether anything changed.
func (m *redactMiddleware) mask(v any) (any, bool) {
	switch node := v.(type) {
	case map[string]any:
		var out map[string]any
		for k, child := range node {
			var next any = Mask
			changed := true
			if !m.sensitive(k) {
				next, changed = m.mask(child)
			}
			if !changed {
				continue
			}
			if out == nil {
				out = maps.Clone(node)
			}
			out[k] = next
		}
		if out == nil {
			return node, false
		}
		return out, true
	case []any:
		var out []any
		for i, child := range node {
			next, changed := m.mask(child)
			if !changed {
				continue
			}
			if out == nil {
				out = slices.Clone(node)
			}
			out[i] = next
		}
		if out == nil {
			return node, false
		}
		return out, true
	default:
		return v, false
	}
}

func (m *redactMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
