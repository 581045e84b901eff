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
	"seiji/console"
	"seiji/game"
	"seiji/logging"
	"seiji/network"
	"seiji/session"
)

var (
	cfgPath   string
	verbose   bool
	boardSize int
	connect   bool
	serverURL string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "seiji",
	Short: "Seiji, jeu de plateau à deux joueurs",
	Long: `Seiji se joue à deux sur un plateau carré (4 à 19 cases de côté).
Chaque joueur pose d'abord son monarque, puis place ou déplace une pièce par tour.
Capturer le monarque adverse termine la partie.

Sans argument, lance une partie locale dans le terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Jouer une partie (locale, ou en réseau avec --connect)",
	RunE:  runPlay,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Écrire la configuration par défaut",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "seiji.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "fichier de configuration YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "logs de debug")

	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().IntVarP(&boardSize, "size", "s", 0, "taille du plateau (4-19)")
		c.Flags().BoolVar(&connect, "connect", false, "rejoindre une partie via le relais")
		c.Flags().StringVar(&serverURL, "server", "", "URL du relais (ws://host:5555/ws)")
	}
	rootCmd.AddCommand(playCmd, initConfigCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var warnings []string
	var err error
	cfg, warnings, err = config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("size") {
		if game.ValidBoardSize(boardSize) {
			cfg.Board.Size = boardSize
		} else {
			warnings = append(warnings, fmt.Sprintf("--size %d out of range, using %d", boardSize, cfg.Board.Size))
		}
	}
	if serverURL != "" {
		cfg.Network.ServerURL = serverURL
	}

	logger, err = logging.New(logging.Verbose(cfg.Logging, verbose))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("configuration", zap.String("warning", w))
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := game.NewMatch(cfg.Board.Size, cfg.Composition())
	if err != nil {
		return err
	}

	var link session.Link
	if connect {
		client, err := network.Dial(ctx, cfg.Network.ServerURL, network.ClientOptions{
			QueueSize:    cfg.Network.QueueSize,
			WriteTimeout: cfg.GetWriteTimeout(),
		}, logger)
		if err != nil {
			// pas de relais : la partie continue en local
			logger.Warn("relay unreachable, playing locally", zap.Error(err))
		} else {
			defer client.Close()
			link = client
		}
	}

	s := session.New(m, link, cfg.Viewport, logger)
	logger.Info("match started",
		zap.Int("size", cfg.Board.Size),
		zap.Bool("networked", s.Networked()))

	err = console.New(s, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
