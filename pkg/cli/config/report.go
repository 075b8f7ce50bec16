package config

import "github.com/urfave/cli/v3"

// Report holds options of a single report run
type Report struct {
	ConfigPath string
	DryRun     bool
	Timestamp  bool
}

// Flags returns CLI flags for report configuration
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML config file",
			Value:       DefaultFilePath,
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("MIRROR_STATUS_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Compute and print the status without writing to GitHub",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("MIRROR_STATUS_DRY_RUN"),
		},
		&cli.BoolFlag{
			Name:        "timestamp",
			Usage:       "Prefix the status with the generation time",
			Destination: &c.Timestamp,
			Sources:     cli.EnvVars("MIRROR_STATUS_TIMESTAMP"),
		},
	}
}
