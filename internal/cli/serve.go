package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/execcontext"
	"github.com/lacquerai/casegen/internal/server"
	"github.com/lacquerai/casegen/internal/style"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset dashboard",
	Long: `Start an HTTP server for the case dashboard.

The server provides:
- the dashboard page and its static assets
- GET /api/data with the dataset as a JSON array of row objects
- GET /api/v1/summary with the dashboard's summary counts
- a WebSocket stream of the dataset's rows at /api/v1/stream
- Prometheus metrics at /metrics

The PORT environment variable sets the port when --port is not given.`,
	Example: `
  casegen serve                               # http://0.0.0.0:8000
  casegen serve --port 9000 --host 127.0.0.1
  casegen serve --data /tmp/cases.csv
  casegen serve --static ./web                # serve your own dashboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := execcontext.New(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		port, err := servePort(cmd)
		if err != nil {
			return err
		}
		return startServer(rc, port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	flags := serveCmd.Flags()
	flags.IntP("port", "p", defaults.Port, "server port (default $PORT or 8000)")
	flags.String("host", defaults.Host, "server host")
	flags.String("data", defaults.DataPath, "dataset CSV to serve")
	flags.String("static", "", "serve dashboard assets from this directory instead of the built-in ones")
	flags.Float64("stream-rate", 0, "rows per second on the WebSocket stream (0 for unpaced)")

	// Features
	flags.Bool("metrics", true, "enable Prometheus metrics endpoint")
	flags.Bool("cors", true, "enable CORS headers")

	for _, name := range []string{"port", "host", "data", "static", "stream-rate", "metrics", "cors"} {
		_ = viper.BindPFlag("serve."+name, flags.Lookup(name))
	}
}

// servePort resolves the port: --port, then $PORT, then configuration.
func servePort(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("port") {
		return viper.GetInt("serve.port"), nil
	}
	if env := os.Getenv("PORT"); env != "" {
		port, err := strconv.Atoi(env)
		if err != nil || port < 0 || port > 65535 {
			return 0, fmt.Errorf("invalid PORT %q", env)
		}
		return port, nil
	}
	return viper.GetInt("serve.port"), nil
}

func startServer(rc execcontext.RunContext, port int) error {
	config := server.DefaultConfig()
	config.Host = viper.GetString("serve.host")
	config.Port = port
	config.DataPath = viper.GetString("serve.data")
	config.StaticDir = viper.GetString("serve.static")
	config.StreamRate = viper.GetFloat64("serve.stream-rate")
	config.EnableMetrics = viper.GetBool("serve.metrics")
	config.EnableCORS = viper.GetBool("serve.cors")

	srv, err := server.New(config, server.WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Display startup info
	if !viper.GetBool("quiet") {
		base := "http://" + net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
		style.Success(rc.StdErr, fmt.Sprintf("casegen dashboard starting at %s", base))
		fmt.Fprintf(rc.StdErr, "  Data:    %s\n", style.FormatFilePath(config.DataPath))
		fmt.Fprintf(rc.StdErr, "  API:     %s/api/data\n", base)
		if config.EnableMetrics {
			fmt.Fprintf(rc.StdErr, "  Metrics: %s/metrics\n", base)
		}
		if _, err := os.Stat(config.DataPath); err != nil {
			style.Warning(rc.StdErr, fmt.Sprintf("%s does not exist yet; run 'casegen generate' to create it", config.DataPath))
		}
	}

	// Start server with graceful shutdown
	if err := srv.StartWithGracefulShutdown(rc.Context); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
