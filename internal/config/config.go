// Package config holds the oevars tool configuration.
//
// Loading order (low to high):
//  1. Defaults - DefaultConfig()
//  2. Config file - --config, or .oevars.yaml / ~/.oevars.yaml / /etc/oevars/config.yaml
//  3. Environment - OEVARS_ prefixed keys, e.g. OEVARS_EXPAND_MAX_LENGTH
//  4. CLI flags - keys with "." replaced by "-", e.g. --expand-max-length
package config

// Config is the oevars tool configuration.
type Config struct {
	Data            string       `json:"data" desc:"Variable definition file (YAML or JSONC)"`
	Overrides       string       `json:"overrides" desc:"Replaces OVERRIDES before resolution when non-empty"`
	InheritPriority string       `json:"inherit-priority" desc:"inherit flag value taken from the environment"`
	Expand          ExpandConfig `json:"expand" desc:"Expansion settings"`
	Log             LogConfig    `json:"log" desc:"Logging settings"`
}

// ExpandConfig controls the expansion engine.
type ExpandConfig struct {
	MaxLength int    `json:"max-length" desc:"Stop expanding once a string is longer than this (0 disables)"`
	MaxPasses int    `json:"max-passes" desc:"Stop expanding after this many passes (0 disables)"`
	Evaluator string `json:"evaluator" desc:"Evaluator for ${@ ...}: expr, hcl or none"`
	Balanced  bool   `json:"balanced" desc:"Allow braces inside ${@ ...}"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `json:"level" desc:"debug, info, warn or error"`
	Format string `json:"format" desc:"text or json"`
}

// Evaluator names.
const (
	EvaluatorExpr = "expr"
	EvaluatorHCL  = "hcl"
	EvaluatorNone = "none"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		InheritPriority: "5",
		Expand: ExpandConfig{
			MaxLength: 2048,
			MaxPasses: 1000,
			Evaluator: EvaluatorExpr,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
