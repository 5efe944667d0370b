package app

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/daemon"
	"github.com/skyportlabs/panel/internal/logger"
)

const (
	flagConfig = "config"
	flagDev    = "dev"
	flagBrowse = "browse"

	defaultConfigPath = "./etc/"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().String(flagConfig, defaultConfigPath, "Directory holding main.toml")
	startCmd.Flags().Bool(flagDev, false, "Enable dev mode")
	startCmd.Flags().Bool(
		flagBrowse,
		false,
		"Enable static file browsing (for development purposes only)",
	)

	// SKYPORT_CONFIG_PATH, SKYPORT_DEV and SKYPORT_BROWSE override the defaults
	settings.SetEnvPrefix("skyport")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindEnv(flagConfig, "SKYPORT_CONFIG_PATH")

	if err := settings.BindPFlags(startCmd.Flags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(startCmd)
}

var (
	settings = viper.New()

	cfg config.Config

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the Skyport web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = loadConfig(settings); err != nil {
				return err
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			go func() {
				if err := d.Start(); err != nil {
					log.Fatal().Err(err).Msg("web service failed")
				}
			}()

			d.WaitShutdown()

			return nil
		},
	}
)

// loadConfig reads main.toml from the directory named by v and applies the command line switches.
func loadConfig(v *viper.Viper) (config.Config, error) {
	c, err := config.ReadConfig(v.GetString(flagConfig))
	if err != nil {
		return config.Config{}, err
	}

	if v.GetBool(flagDev) {
		c.DevMode = true
	}

	if v.GetBool(flagBrowse) {
		c.Webserver.BrowseStatic = true
	}

	return c, nil
}
