package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/formulint/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("formulint")

// app carries the settings shared by all subcommands.
type app struct {
	configPath string
	verbose    int
	logFile    string
	cfg        *config.Config
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose > cfg.Log.Verbosity {
		cfg.Log.Verbosity = a.verbose
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	a.cfg = cfg

	configureLogging(cfg.Log.Verbosity, cfg.LogFile())
	log.Debugf("loaded configuration from %s", a.configPath)
	return nil
}

type logSettings struct {
	verbosity int
	file      string
}

var (
	logMu      sync.Mutex
	logCurrent *logSettings
)

// configureLogging sets up the commonlog backend. Every Configure call
// starts a new writer, so it only happens when the settings change.
func configureLogging(verbosity int, file *string) {
	s := logSettings{verbosity: verbosity}
	if file != nil {
		s.file = *file
	}

	logMu.Lock()
	defer logMu.Unlock()
	if logCurrent != nil && *logCurrent == s {
		return
	}
	commonlog.Configure(verbosity, file)
	logCurrent = &s
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "formulint",
		Short:             "Validate trigger expressions and condition formulas",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "configuration file")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newFormulaCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newStoreCmd(a))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
