package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level logged (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding: json, console, or auto (console on a terminal).
	Format string `mapstructure:"format" default:"auto"`
}

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatAuto    = "auto"
)
