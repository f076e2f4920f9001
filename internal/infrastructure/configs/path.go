package configs

import (
	"flag"
	"os"

	"github.com/hilthontt/codeboard/internal/infrastructure/env"
)

var configCandidates = []string{
	"./config.yaml",
	"./config.yml",
	"./tmp/config.yaml",
	"../../config.yaml",
	"/etc/codeboard/config.yaml",
	"/app/config.yaml",
}

// DetermineConfigPath resolves the config file from -config, then
// CODEBOARD_CONFIG, then well-known locations. An empty result means run on
// defaults.
func DetermineConfigPath() string {
	var configPath string

	if flag.Lookup("config") == nil {
		flag.StringVar(&configPath, "config", "", "path to config file")
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if f := flag.Lookup("config"); f != nil && configPath == "" {
		configPath = f.Value.String()
	}

	if configPath == "" {
		configPath = env.GetString("CODEBOARD_CONFIG", "")
	}

	if configPath == "" {
		for _, p := range configCandidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
