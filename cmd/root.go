package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-ble/ble"
	"github.com/spf13/cobra"

	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/notify"
)

// Version is set at build time via -ldflags "-X beacon-transmitter/cmd.Version=..."
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "beacon-transmitter",
	Short: "Transmit a Bluetooth LE beacon",
	Long: `beacon-transmitter checks that this host can advertise over Bluetooth LE
and then transmits the configured AltBeacon until interrupted.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	RunE:              runTransmit,
}

func Execute() error {
	return report(os.Stderr, rootCmd.Execute())
}

// 事前チェックの失敗はダイアログで伝えているので、ここでは表示しない
func report(w io.Writer, err error) error {
	if err != nil && !isBlocked(err) {
		fmt.Fprintln(w, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().IntP("metrics-port", "p", 0, "Prometheus exporterのポート番号 (0で無効)")
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("BEACON_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if f := cmd.Flags().Lookup("metrics-port"); f != nil && f.Changed {
		cfg.MetricsPort, _ = cmd.Flags().GetInt("metrics-port")
	}
	// フラグで上書きした値も含めてチェック
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runTransmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	h, err := newHost(cfg)
	if err != nil {
		return err
	}

	ctx := ble.WithSigHandler(signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM))
	return transmit(ctx, h, cfg, notify.NewDialog())
}
