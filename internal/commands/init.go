package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/config"
	"github.com/caixa-dev/caixa/internal/store"
)

func newInitCommand(_ *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create caixa.yaml and an empty database",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			skipConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(cmd.Context(), absDir, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized caixa at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing caixa.yaml")

	return cmd
}

func runInit(ctx context.Context, dir string, force bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default()
	for _, d := range []string{filepath.Dir(cfg.Database.Path), cfg.Reports.Dir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	// Open once so the schema exists before the first entry.
	cfg.Resolve(dir)
	st, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return "", fmt.Errorf("creating database: %w", err)
	}
	if err := st.Close(); err != nil {
		return "", fmt.Errorf("closing database: %w", err)
	}

	gitignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignore); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(gitignore, []byte("data/\nreports/\n"), 0o644); err != nil {
			return "", fmt.Errorf("writing .gitignore: %w", err)
		}
	}

	return dir, nil
}
