// Package cmd provides the CLI commands for the cursoteca storefront client.
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/CursosTech/cursoteca/internal/config"
	"github.com/CursosTech/cursoteca/internal/service"
)

var cfgFile string
var statePath string

var rootCmd = &cobra.Command{
	Use:   "cursoteca",
	Short: "cursoteca - course storefront client",
	Long: `cursoteca is a terminal client for the CursosTech course catalog.

It keeps a local view of the remote catalog, a durable shopping cart and a
login session, with the same route gating as the web storefront: the cart
requires a session and the admin commands require an administrator session.

Quick start:
  1. Create a config file: cursoteca config init
  2. Browse:               cursoteca productos list
  3. Log in:               cursoteca login --nombre Ana --email ana@example.com
  4. Add to the cart:      cursoteca cart add <product-id>

Configuration:
  Config is loaded from cursoteca.yaml in the current directory,
  $HOME/.cursoteca/, or /etc/cursoteca/.

  Environment variables can override config values with the CURSOTECA_
  prefix. Example: CURSOTECA_CATALOG_BASE_URL=https://api.example.com

Commands:
  productos   List, view and administer catalog products
  cart        Show and mutate the shopping cart
  login       Start a session
  logout      End the session and empty the cart
  config      Manage the configuration file
  reset       Clear all local state (session and cart)
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./cursoteca.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to the local state file (overrides storage.path)")
}

func initConfig() {
	config.InitViper(cfgFile)
}

// newStorefront loads the configuration and builds the wired storefront.
// When metrics.addr is configured a /metrics listener is started for the
// lifetime of the process.
func newStorefront() (*service.Storefront, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if statePath != "" {
		cfg.Storage.Path = statePath
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format)

	var reg *prometheus.Registry
	if cfg.Metrics.Addr != "" {
		reg = prometheus.NewRegistry()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Warn("metrics listener stopped", "error", err)
			}
		}()
	}

	return service.New(cfg, logger, registererOrNil(reg))
}

func registererOrNil(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
