package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFile  string
	storage  string
	logLevel string
}

// run executes one command line and releases whatever storage it opened.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog, manage the cart and check out",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.envFile)
			if err != nil {
				return err
			}

			if flags.storage != "" {
				cfg.Storage.Driver = strings.ToLower(flags.storage)
				if err := cfg.Storage.Validate(); err != nil {
					return err
				}
			}
			if flags.logLevel != "" {
				cfg.Log.Level = flags.logLevel
			}

			log := logger.New(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})

			return a.open(cmd.Context(), cfg, log)
		},
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to read when present")
	root.PersistentFlags().StringVar(&flags.storage, "storage", "", "storage backend: memory|sqlite|postgres|redis")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error")

	root.AddCommand(
		newProductsCmd(a),
		newProductCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
		newReviewCmd(a),
		newWatchCmd(a),
	)

	return root
}
