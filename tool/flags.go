package tool

import (
	"flag"

	"github.com/suzume/renamebot/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Flags {
	var cfg types.Flags
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseScratchDir, "useScratchDir", "", "override scratch download folder")
	flag.Parse()
	return cfg
}
