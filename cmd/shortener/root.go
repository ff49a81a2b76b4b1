package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/clipboard"
	"github.com/Totarae/tinylink/internal/config"
	applog "github.com/Totarae/tinylink/internal/logger"
	"github.com/Totarae/tinylink/internal/service"
	"github.com/Totarae/tinylink/internal/session"
	"github.com/Totarae/tinylink/internal/tinyurl"
	"github.com/Totarae/tinylink/internal/validator"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shortener",
		Short:         "Shorten long URLs through TinyURL",
		Long:          "Serves a one-page form that shortens URLs through the TinyURL API.",
		Version:       fmt.Sprintf("%s (built %s)", buildVersion, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	config.BindFlags(root.PersistentFlags())
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and the gRPC API (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	root.AddCommand(newTUICmd())
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.New(), cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := applog.NewZapLog(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return serve(ctx, cfg, logger)
}

// components собирает зависимости формы, общие для всех поверхностей.
type components struct {
	validator *validator.Validator
	client    *tinyurl.Client
	copier    *clipboard.System
	logger    *zap.Logger
}

func newComponents(cfg *config.Config, logger *zap.Logger) *components {
	v := validator.New()
	return &components{
		validator: v,
		client: tinyurl.New(tinyurl.Config{
			Endpoint: cfg.ShortenerEndpoint,
			Timeout:  cfg.RequestTimeout,
		}, v, logger),
		copier: clipboard.NewSystem(),
		logger: logger,
	}
}

// newForm создаёт контроллер формы для новой сессии.
func (c *components) newForm() *service.FormController {
	return service.NewFormController(c.validator, c.client, c.copier, session.NewState(), c.logger)
}
