package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize stockpile storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, and create the database. Running init again is safe.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return systemErr(err)
	}

	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return systemErr(fmt.Errorf("create config directory: %w", err))
	}
	configPath := filepath.Join(a.configDir, configFileExt)
	created, err := writeConfigIfMissing(configPath, cfg.DataDir)
	if err != nil {
		return systemErr(fmt.Errorf("write config: %w", err))
	}
	if created {
		a.log.Info("config written", "path", configPath)
	}

	if _, err := a.ledger(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]string{
			"config":   configPath,
			"database": a.backend.Path(),
		})
	}
	fmt.Fprintf(out, "stockpile initialized\nconfig:   %s\ndatabase: %s\n", configPath, a.backend.Path())
	return nil
}
