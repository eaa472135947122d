package tool

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suzume/renamebot/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

const (
	DefaultScratchDir  = "downloads"
	DefaultHealthAddr  = ":8080"
	DefaultMongoDBName = "RenameBot"
	DefaultMaxFileSize = int64(2) << 30 // 2 GiB
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		MongoDB:     DefaultMongoDBName,
		MaxFileSize: DefaultMaxFileSize,
		ScratchDir:  DefaultScratchDir,
		HealthAddr:  DefaultHealthAddr,
	}
}

// LoadConfig reads the YAML config file (optional), applies environment
// overrides and validates required values. Missing required values are fatal
// for the caller: an error here means the process must not serve.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %v", err)
		}
	case os.IsNotExist(err):
		DefaultLogger.Debugf("No config file at %s, using environment only", path)
	default:
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.BotToken == "" {
		return cfg, fmt.Errorf("bot token is required (BOT_TOKEN or botToken in %s)", path)
	}
	if cfg.MongoURI == "" {
		return cfg, fmt.Errorf("database URI is required (DB_URL or mongoUri in %s)", path)
	}
	if len(cfg.Owners) == 0 {
		return cfg, fmt.Errorf("at least one owner id is required (OWNER_IDS or owners in %s)", path)
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = DefaultMongoDBName
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = DefaultScratchDir
	}
	if cfg.HealthAddr == "" {
		cfg.HealthAddr = DefaultHealthAddr
	}

	CurrentConfig = cfg
	return cfg, nil
}

func applyEnvOverrides(cfg *types.AppConfig) {
	if v := strings.TrimSpace(os.Getenv("BOT_TOKEN")); v != "" {
		cfg.BotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_URL")); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_NAME")); v != "" {
		cfg.MongoDB = v
	}
	if v := strings.TrimSpace(os.Getenv("OWNER_IDS")); v != "" {
		cfg.Owners = ParseIDList(v)
	}
	if v := strings.TrimSpace(os.Getenv("DUMP_CHANNEL")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.DumpChannel = id
		} else {
			DefaultLogger.Warnf("Ignoring invalid DUMP_CHANNEL %q", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_FILE_SIZE")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSize = n
		} else {
			DefaultLogger.Warnf("Ignoring invalid MAX_FILE_SIZE %q", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("HEALTH_ADDR")); v != "" {
		cfg.HealthAddr = v
	}
}

// ParseIDList parses a comma/space separated list of numeric user ids.
// Malformed entries are skipped.
func ParseIDList(raw string) []int64 {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			DefaultLogger.Warnf("Skipping non-numeric id %q", p)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
