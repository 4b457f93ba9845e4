package config

import (
	"flag"
	"os"

	"github.com/akarpov88/petkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backing-store API (default from Config)
//	-u string   zone owner id
//	-d string   local database path
//	-t string   bearer token file path
//	-s bool     enable sync passes
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "base URL of the backing-store API")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "zone owner id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "bearer token file path")
	fs.BoolVar(&cfg.SyncEnabled, "s", cfg.SyncEnabled, "enable sync passes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
