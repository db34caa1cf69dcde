package app

import (
	"github.com/spf13/cobra"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/daemon"
	"github.com/GoWings-Provision/GoWings-Provision/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration file

	err     error
	cfg     config.Config
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoWings-Provision web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			daemon := daemon.New(&cfg)
			if err := daemon.Start(); err != nil {
				return err
			}

			return nil
		},
	}
)
