// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers a YAML file and env vars on top.
// - Validation uses struct tags checked by go-playground/validator.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// CSVPath locates the item source; "-" reads stdin.
	CSVPath string `koanf:"csv_path" validate:"required"`

	// Epsilon is the probability of the exploration strategy.
	Epsilon float64 `koanf:"epsilon" validate:"gte=0,lte=1"`

	// Alpha is the power-law exponent favouring low-vote items.
	Alpha float64 `koanf:"alpha" validate:"gte=0"`

	// Rounds is how many independent selections simulate prints.
	Rounds int `koanf:"rounds" validate:"gte=1,lte=100000"`

	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`

	// Output selects the rendering: table or json.
	Output string `koanf:"output" validate:"oneof=table json"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		CSVPath:  "Leaderboard_models - Sheet1.csv",
		Epsilon:  0.20,
		Alpha:    2.0,
		Rounds:   10,
		Seed:     0,
		Output:   OutputTable,
	}
}
