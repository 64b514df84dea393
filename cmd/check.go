package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/preflight"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the prerequisite checks without advertising",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	h, err := newHost(cfg)
	if err != nil {
		return err
	}
	return check(cmd.OutOrStdout(), h, cfg)
}

// チェック結果を表示する。ダイアログは出さない
func check(out io.Writer, h preflight.Host, cfg config.Config) error {
	r, err := preflightCheck(h, cfg)
	if err != nil {
		return err
	}
	if !r.OK() {
		fmt.Fprintf(out, "blocked (%s): %s\n%s\n", r.Probe, r.Title, r.Message)
		if r.Err != nil {
			fmt.Fprintf(out, "cause: %v\n", r.Err)
		}
		return fmt.Errorf("%w: %s", errBlocked, r.Probe)
	}

	// チェックで開いたデバイスを解放する
	if adv, err := h.Advertiser(); err == nil {
		if err := adv.Stop(); err != nil {
			slog.Warn("device stop error", "error", err)
		}
	}
	fmt.Fprintln(out, "ready")
	return nil
}
