package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/clashforge/v8session/internal/config"
	"github.com/clashforge/v8session/internal/cryptocore"
	"github.com/clashforge/v8session/internal/fixtures"
	"github.com/clashforge/v8session/internal/gameserver"
	"github.com/clashforge/v8session/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the v8 TCP listening server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(ConfigFile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var keys *cryptocore.KeyPair
	if cfg.FixturesFile != "" {
		set, err := fixtures.LoadFile(cfg.FixturesFile)
		if err != nil {
			return fmt.Errorf("loading fixtures: %w", err)
		}
		keys = &cryptocore.KeyPair{Public: set.StandardPublicKey, Private: set.StandardPrivateKey}
	} else {
		keys, err = cryptocore.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("generating server keypair: %w", err)
		}
	}

	m := metrics.NewMetrics(cfg.MetricsNamespace)

	srv, err := gameserver.New(gameserver.Config{
		ListenAddr:     cfg.ListenAddr,
		ConnRatePerIP:  cfg.ConnRatePerIP,
		ConnBurstPerIP: cfg.ConnBurstPerIP,
		MaxConnsPerIP:  cfg.MaxConnsPerIP,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		ServerKeys:     keys,
	}, m)
	if err != nil {
		return fmt.Errorf("constructing server: %w", err)
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintln(os.Stderr, color.YellowString("metrics server error:"), err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Fprintln(os.Stderr, color.CyanString("shutting down..."))
		cancel()
	}()

	fmt.Fprintln(os.Stderr, color.GreenString("listening on"), cfg.ListenAddr)
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
