package main

import (
	"github.com/spf13/cobra"

	"zooapi/internal/config"
)

type rootFlags struct {
	configPath string
	port       int
	storage    string
	dataPath   string
	readOnly   bool
	logLevel   string
	logFormat  string
	metrics    string
	trace      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "zooapi",
		Short:         "Serve and query the animal collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.IntVar(&flags.port, "port", config.DefaultPort, "listen port (overrides PORT)")
	pf.StringVar(&flags.storage, "storage", "", "storage driver: file, memory, sqlite, postgres or blob")
	pf.StringVar(&flags.dataPath, "data", "", "path of the JSON document used by the file driver")
	pf.BoolVar(&flags.readOnly, "read-only", false, "serve without the create route")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "text or json")
	pf.StringVar(&flags.metrics, "metrics", "", "prometheus, expvar or none")
	pf.BoolVar(&flags.trace, "trace", false, "write JSON trace spans to stderr")

	root.AddCommand(newServeCmd(flags), newQueryCmd(flags))
	return root
}

// loadConfig layers flags explicitly set on cmd over the file and the
// environment, then validates the result.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, nil)
	if err != nil {
		return config.Config{}, err
	}
	set := cmd.Flags()
	if set.Changed("port") {
		cfg.Port = flags.port
	}
	if set.Changed("storage") {
		cfg.Storage.Driver = flags.storage
	}
	if set.Changed("data") {
		cfg.Storage.DataPath = flags.dataPath
	}
	if set.Changed("read-only") {
		cfg.ReadOnly = flags.readOnly
	}
	if set.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if set.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if set.Changed("metrics") {
		cfg.Metrics = flags.metrics
	}
	if set.Changed("trace") {
		cfg.Trace = flags.trace
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
