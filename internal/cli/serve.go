package cli

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/backend"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr, kind, data string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local items API for development",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc := a.cfg.Server
			f := cmd.Flags()
			if f.Changed("addr") {
				sc.Addr = addr
			}
			if f.Changed("store") {
				sc.Store = kind
			}
			if f.Changed("data") {
				sc.Data = data
			}

			s, err := openStore(cmd.Context(), sc)
			if err != nil {
				return err
			}
			defer s.Close()

			a.logger.Info("store opened", "kind", sc.Store, "path", sc.DataPath())
			return backend.Serve(cmd.Context(), sc.Addr, s, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&kind, "store", "", "json or sqlite")
	cmd.Flags().StringVar(&data, "data", "", "store file")
	return cmd
}

func openStore(ctx context.Context, sc config.ServerConfig) (store.Store, error) {
	switch sc.Store {
	case "json":
		s, err := jsonstore.Open(sc.DataPath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlitestore.Open(ctx, sc.DataPath())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, usagef("serve: unknown store %q (want json or sqlite)", sc.Store)
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.Files) == 0 {
				fmt.Fprintln(a.stdout, "# no config files, defaults and environment only")
			}
			for _, f := range a.cfg.Files {
				fmt.Fprintln(a.stdout, "# from "+f)
			}
			return toml.NewEncoder(a.stdout).Encode(a.cfg)
		},
	}
}
