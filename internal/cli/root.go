// Package cli implementa petsctl: el formulario de alta y el listado de
// mascotas perdidas desde la terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"lost-pets/internal/adapters/storage"
	"lost-pets/internal/config"
	"lost-pets/internal/domain/pets"
	"lost-pets/internal/platform/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type app struct {
	out io.Writer
	err io.Writer

	flagConfig  string
	flagBackend string
	flagDB      string
	flagNoColor bool

	cfg   *config.Config
	log   logger.Logger
	svc   *pets.Service
	close func() error
}

// NewRootCmd arma el árbol de comandos escribiendo en out/errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut}

	root := &cobra.Command{
		Use:   "petsctl",
		Short: "Register and browse lost pets",
		Long: `petsctl registers lost pets and lists them, with a favorites view.

The whole list lives as one JSON value under a single storage key
(SQLite file by default, Postgres or memory via config).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flagConfig, "config", "", "Config file path (default: $PETS_CONFIG or ~/.config/lost-pets/config.yml)")
	root.PersistentFlags().StringVar(&a.flagBackend, "backend", "", "Storage backend: sqlite|postgres|memory (default: sqlite unless configured)")
	root.PersistentFlags().StringVar(&a.flagDB, "db", "", "SQLite file path (overrides storage.sqlite_path)")
	root.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "Disable colored output")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if a.flagNoColor {
			color.NoColor = true
		}
		if cmd.Annotations["skipStore"] == "true" {
			return nil
		}
		return a.open(cmd.Context())
	}
	root.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		if a.close != nil {
			return a.close()
		}
		return nil
	}

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newFavoriteCmd(a),
		newToggleCmd(a),
		newTypesCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if strings.TrimSpace(a.flagConfig) != "" {
		return config.LoadFile(a.flagConfig)
	}
	return config.Load()
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// En la terminal la lista tiene que sobrevivir entre invocaciones:
	// memory solo si se pide explícito.
	switch {
	case strings.TrimSpace(a.flagBackend) != "":
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(a.flagBackend))
	case cfg.Storage.Backend == config.BackendMemory:
		cfg.Storage.Backend = config.BackendSQLite
	}
	if strings.TrimSpace(a.flagDB) != "" {
		cfg.Storage.SQLitePath = config.ExpandHome(a.flagDB)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
		Writer: a.err,
	})
	store, closeFn, err := storage.Open(ctx, cfg.Storage, a.log.With(map[string]any{"component": "storage"}))
	if err != nil {
		return err
	}
	a.close = closeFn
	a.svc = pets.NewService(store, cfg.Storage.Key, pets.WithMaxImageBytes(cfg.Images.MaxBytes))
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
