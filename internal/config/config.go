// Package config parses the agent's environment: a small flag set
// consumable from both the CLI entry point and tests, generalizing the
// teacher's ad hoc flag.String/flag.Bool wiring into a struct.
package config

import (
	"flag"
	"fmt"
)

// Config is the agent's full environment, per §6.3.
type Config struct {
	ServerPort       int    // 1-65535, default 9090
	ParamFrameworkDir string // path to parameter-framework configuration
	Verbose          bool
	Validate         bool
}

const defaultServerPort = 9090
const defaultParamFrameworkDir = "/etc/cavs-debug-agent/parameter-framework"

// Default returns the compiled-in default configuration.
func Default() Config {
	return Config{
		ServerPort:        defaultServerPort,
		ParamFrameworkDir: defaultParamFrameworkDir,
	}
}

// Parse builds a Config from args (typically os.Args[1:]) using a FlagSet
// scoped to this call, so tests can parse independent argument sets
// without touching the package-level flag.CommandLine.
func Parse(name string, args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.ServerPort, "server_port", cfg.ServerPort, "REST server listen port (1-65535)")
	fs.StringVar(&cfg.ParamFrameworkDir, "pfw_config", cfg.ParamFrameworkDir, "path to parameter-framework configuration")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose server logging")
	fs.BoolVar(&cfg.Validate, "validate", cfg.Validate, "enable parameter-framework validation")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.checkInvariants(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) checkInvariants() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("config: server_port %d out of range 1-65535", c.ServerPort)
	}
	return nil
}
