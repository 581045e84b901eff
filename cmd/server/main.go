package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seiji/config"
	"seiji/logging"
	"seiji/network"
)

var (
	cfgPath string
	addr    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "seiji-relay",
	Short: "Relais réseau entre deux joueurs de Seiji",
	Long: `Accepte deux joueurs sur /ws et renvoie à chacun les snapshots de l'autre.
Un troisième joueur est refusé (503).`,
	SilenceUsage: true,
	RunE:         runRelay,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "fichier de configuration YAML")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "", "adresse d'écoute (défaut :5555)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "logs de debug (chaque snapshot relayé)")
}

// listenAddr : le flag prime sur la configuration (fichier puis SEIJI_LISTEN_ADDR).
func listenAddr(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.Network.ListenAddr != "" {
		return cfg.Network.ListenAddr
	}
	return fmt.Sprintf(":%d", network.DefaultRelayPort)
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Verbose(cfg.Logging, verbose))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Warn("configuration", zap.String("warning", w))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay := network.NewRelay(logger)
	if err := relay.ListenAndServe(ctx, listenAddr(cfg, addr)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("relay failed", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
