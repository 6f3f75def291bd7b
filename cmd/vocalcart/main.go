// cmd/vocalcart/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vocalcart/internal/command"
	"vocalcart/internal/common/config"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/common/observability"
	"vocalcart/internal/nlp"
	"vocalcart/internal/session"
	"vocalcart/internal/voice"
)

const greeting = "Welcome to VocalCart! I can help you search for products, compare prices, and manage your cart. Say help at any time to hear what I can do."

var (
	configPath string
	sessionID  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "vocalcart",
	Short: "VocalCart - voice driven product search",
	Long: `VocalCart turns short spoken shopping requests into product searches,
reads results back one at a time and keeps a cart per conversation.

Run without arguments to start an interactive chat on the terminal.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive shopping conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Print the structured query extracted from text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := nlp.NewExtractor().Analyze(strings.Join(args, " "))
		return printJSON(cmd, result)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Print the command a short utterance resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, command.Classify(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (defaults to configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
	chatCmd.Flags().StringVar(&sessionID, "session", "", "resume a session id (a new one is generated when empty)")
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())

	rootCmd.AddCommand(chatCmd, parseCmd, classifyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func runChat(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting VocalCart...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.Strings("stores", cfg.Catalog.Stores),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	deps, err := connect(ctx, cfg, zapLog)
	if err != nil {
		return err
	}
	defer deps.Close(zapLog)

	source, err := buildSource(cfg, deps, log)
	if err != nil {
		return err
	}
	store, err := buildCartStore(ctx, cfg, deps, log)
	if err != nil {
		return err
	}

	scfg := session.ConfigFrom(cfg)
	registry := session.NewRegistry(scfg.ConversationLogSize, store, log)
	manager := session.NewManager(scfg, registry, source, store, obs, log)

	go registry.RunEviction(ctx, evictionInterval(scfg), scfg.IdleTimeout)

	if cfg.Server.Enabled {
		srv := startHealthServer(cfg.Server.Address(), zapLog)
		defer shutdownServer(srv, zapLog)
	}

	id := sessionID
	if id == "" {
		id = session.NewSessionID()
	}
	zapLog.Info("Session started", zap.String("sessionId", id))

	console := voice.NewConsole(os.Stdin, os.Stdout, cfg.Voice.Prompt, log)
	defer console.Close()

	turns := voice.Converse(ctx, console, greeting, func(ctx context.Context, text string) (string, bool) {
		resp := manager.Handle(ctx, id, text)
		return resp.Message, resp.Action == session.ActionEndSession
	})

	zapLog.Info("VocalCart stopped gracefully", zap.Int("turns", turns))
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
