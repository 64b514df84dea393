package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// payload
var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Print the manufacturer data of the configured beacon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := cfg.Beacon.ManufacturerData()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "beacon:       %s\nmanufacturer: 0x%04x\ndata:         % X\n",
			cfg.Beacon, cfg.Beacon.Manufacturer, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(payloadCmd)
}
