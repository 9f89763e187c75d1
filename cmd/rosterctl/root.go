package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/config"
	"github.com/noah-isme/yearbook-api/pkg/logger"
	"github.com/noah-isme/yearbook-api/pkg/yearbookclient"
)

type app struct {
	cfg    *config.ClientConfig
	logger *zap.Logger
	client *yearbookclient.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var apiURL, token string

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage yearbook rosters from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if apiURL != "" {
				cfg.BaseURL = apiURL
			}
			if token != "" {
				cfg.Token = token
			}
			a.cfg = cfg

			logr, err := logger.Build(config.EnvDevelopment, config.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.logger = logr

			session := yearbookclient.NewSession(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
			session.Restore(cfg.Token, models.UserType(cfg.UserType))
			a.client = yearbookclient.New(session, yearbookclient.WithLogger(logr))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "yearbook API base URL including the prefix (env YEARBOOK_API_URL)")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token (env YEARBOOK_TOKEN)")

	root.AddCommand(
		newLoginCmd(a),
		newCollegesCmd(a),
		newUploadCmd(a),
		newStudentsCmd(a),
		newTestimonialCmd(a),
	)
	return root
}
