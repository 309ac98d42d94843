package cli

import (
	"github.com/spf13/cobra"

	"github.com/Saffen/thelionsroar/internal/handlers"
	"github.com/Saffen/thelionsroar/pkg/config"
	"github.com/Saffen/thelionsroar/pkg/logging"
	"github.com/Saffen/thelionsroar/pkg/monitoring"
	"github.com/Saffen/thelionsroar/pkg/server"
	"github.com/Saffen/thelionsroar/pkg/version"
)

func newServeCmd() *cobra.Command {
	var (
		port        string
		widgetsPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site API (widgets config, health, metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLoggerWithComponent("api")
			config.LoadEnv(logger)
			settings := config.FromEnv()

			if port == "" {
				port = config.GetEnv("PORT", "8099")
			}
			if widgetsPath == "" {
				widgetsPath = config.GetEnv("WIDGETS_PATH", handlers.DefaultWidgetsPath)
			}

			healthChecker := monitoring.NewHealthChecker("lionsroar", version.Version)
			healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
				"SITE_BASE_URL": settings.SiteBaseURL,
			}))
			healthChecker.AddCheck("state_dir", monitoring.StateDirHealthCheck(settings.StatePath))
			healthChecker.AddCheck("content_dir", monitoring.ContentDirHealthCheck(settings.ContentDir))

			metricsCollector := monitoring.NewMetricsCollector("lionsroar", version.Version, version.GitCommit)

			app := server.SetupServiceRouter(logger, "lionsroar", healthChecker, metricsCollector)

			widgets := handlers.NewWidgetsHandler(widgetsPath, logger)
			app.GET("/widgets/config", widgets.Handle)

			serverConfig := server.DefaultConfig("lionsroar", port)
			if err := server.Start(serverConfig, app, logger); err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT or 8099)")
	cmd.Flags().StringVar(&widgetsPath, "widgets", "", "widgets config file (default: data/widgets.yaml)")

	return cmd
}
