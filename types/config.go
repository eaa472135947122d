package types

// AppConfig is the application configuration loaded from the config file,
// with environment variables taking precedence over file values.
type AppConfig struct {
	BotToken    string  `yaml:"botToken"`
	MongoURI    string  `yaml:"mongoUri"`
	MongoDB     string  `yaml:"mongoDb"`
	Owners      []int64 `yaml:"owners"`
	DumpChannel int64   `yaml:"dumpChannel,omitempty"`
	MaxFileSize int64   `yaml:"maxFileSize,omitempty"` // bytes, 0 = default
	ScratchDir  string  `yaml:"scratchDir,omitempty"`
	HealthAddr  string  `yaml:"healthAddr,omitempty"`
}

// Flags holds runtime overrides from CLI flags.
type Flags struct {
	Log           string
	UseConfigPath string
	UseScratchDir string
}
