package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level to log (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (json or console).
	Format string `mapstructure:"format" default:"console"`
	// File is an optional log file written alongside stdout.
	File string `mapstructure:"file" default:"logs/dlc_updater.log"`
}
