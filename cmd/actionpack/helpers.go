package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/aretw0/actionpack/internal/adapters/file"
	"github.com/aretw0/actionpack/internal/codec"
	"github.com/aretw0/actionpack/internal/compiler"
	"github.com/aretw0/actionpack/pkg/domain"
	"github.com/aretw0/actionpack/pkg/persistence/middleware"
	"github.com/aretw0/actionpack/pkg/ports"
)

// outputFormat resolves --format, falling back to the extension of name.
func outputFormat(cmd *cobra.Command, name string) (codec.Format, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != "" {
		return codec.ParseFormat(format)
	}
	if name != "" {
		return codec.FormatOf(name), nil
	}
	return codec.YAML, nil
}

// KeyEnv names the environment variable holding the base64 encoded AES-256
// key that encrypts persistent sessions.
const KeyEnv = "ACTIONPACK_SESSION_KEY"

// sessionStore builds the file store under --dir, redacting the keys named by
// --redact and encrypting when KeyEnv is set.
func sessionStore(cmd *cobra.Command) (ports.StateStore, error) {
	dir, _ := cmd.Flags().GetString("dir")
	format, err := outputFormat(cmd, "")
	if err != nil {
		return nil, err
	}

	var mws []middleware.Middleware
	if patterns, _ := cmd.Flags().GetStringSlice("redact"); len(patterns) > 0 {
		mw, err := middleware.NewRedactMiddleware(patterns...)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if encoded := os.Getenv(KeyEnv); encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", KeyEnv, err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", KeyEnv, err)
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(file.New(dir, format), mws...), nil
}

func loadManifest(path string) (*compiler.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return compiler.NewParser().Parse(data, codec.FormatOf(path))
}

func readState(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return codec.Unmarshal(data, codec.FormatOf(path))
}

// printDiff lists the changed paths and the full diff, coloured when w is a
// terminal.
func printDiff(w io.Writer, prev, next any) {
	out := termenv.NewOutput(w)

	paths := domain.ChangedPaths(prev, next)
	if len(paths) == 0 {
		fmt.Fprintln(w, "no changes")
		return
	}

	fmt.Fprintln(w, out.String("changed:").Bold())
	for _, p := range paths {
		if p == "" {
			p = "."
		}
		fmt.Fprintln(w, "  "+out.String(p).Foreground(out.Color("#818cf8")).String())
	}

	for _, line := range strings.Split(strings.TrimRight(domain.Diff(prev, next), "\n"), "\n") {
		style := out.String(line)
		switch trimmed := strings.TrimSpace(line); {
		case strings.HasPrefix(trimmed, "-"):
			style = style.Foreground(out.Color("#fb7185"))
		case strings.HasPrefix(trimmed, "+"):
			style = style.Foreground(out.Color("#4ade80"))
		}
		fmt.Fprintln(w, style)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
