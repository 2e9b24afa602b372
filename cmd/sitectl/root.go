package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codeharbor/portfolio/config"
	"github.com/codeharbor/portfolio/internal/bootstrap"
	"github.com/codeharbor/portfolio/internal/imageurl"
	"github.com/codeharbor/portfolio/internal/logging"
)

// app is the state shared by every command of one invocation.
type app struct {
	output  string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Manage portfolio articles and projects",
		Long: `sitectl talks to the portfolio content API.

Reading is anonymous. Creating, updating and deleting need a token saved
with "sitectl login".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", a.output)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.App.LogLevel
			if a.verbose {
				level = zapcore.DebugLevel.String()
			}
			a.logger, err = logging.New(cfg.App.Environment, level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatTable, "Output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newArticlesCmd(a),
		newProjectsCmd(a),
	)
	return root
}

func (a *app) openSession(ctx context.Context) (*bootstrap.Session, error) {
	return bootstrap.OpenSession(ctx, a.cfg, a.logger)
}

// openContent returns the content services authorized by the saved session.
func (a *app) openContent(ctx context.Context) (*bootstrap.Content, func(), error) {
	sess, err := a.openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	content, err := bootstrap.OpenContent(ctx, a.cfg, sess.Store, a.logger)
	if err != nil {
		sess.Close()
		return nil, nil, err
	}
	return content, func() {
		content.Close()
		sess.Close()
	}, nil
}

func (a *app) images() imageurl.Resolver {
	return imageurl.Resolver{Origin: a.cfg.API.Origin, Base: a.cfg.API.AssetBase}
}
