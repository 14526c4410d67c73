package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/jsonc"
	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

// AppName is used for the default config paths.
const AppName = "oevars"

// EnvPrefix is the default prefix of configuration environment variables.
const EnvPrefix = "OEVARS_"

// options holds the loading options.
type options struct {
	cmd         *cli.Command
	configPaths []string
	envPrefix   string
	environ     []string
	environSet  bool
}

// Option configures [Load].
type Option func(*options)

// WithCommand reads explicitly set CLI flags (highest priority). A set
// --config flag also replaces the config search paths.
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithConfigPaths sets the config files to look for; the first one that
// exists is used.
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithEnvPrefix sets the prefix of configuration environment variables.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnviron replaces os.Environ() as the source of environment values,
// both for the env layer and for ${VAR} references in config files.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		o.environSet = true
	}
}

// DefaultPaths returns the config files searched when none is given, in
// lookup order.
func DefaultPaths() []string {
	paths := []string{"." + AppName + ".yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+AppName+".yaml"))
	}

	return append(paths, "/etc/"+AppName+"/config.yaml")
}

// Load merges defaults, the first config file found, environment variables
// and CLI flags into a Config.
func Load(opts ...Option) (*Config, error) {
	o := &options{envPrefix: EnvPrefix}
	for _, opt := range opts {
		opt(o)
	}
	if !o.environSet {
		o.environ = os.Environ()
	}
	env := vardata.EnvironMap(o.environ)

	configMap, err := toMap(DefaultConfig())
	if err != nil {
		return nil, err
	}
	keys := flattenKeys(configMap)

	paths, required := o.configPaths, false
	if o.cmd != nil && o.cmd.IsSet("config") {
		paths, required = []string{o.cmd.String("config")}, true
	}
	if len(paths) == 0 {
		paths = DefaultPaths()
	}
	if err := mergeFirstFile(configMap, paths, required, env); err != nil {
		return nil, err
	}

	if o.envPrefix != "" {
		for _, key := range keys {
			envKey := o.envPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
			if val := env[envKey]; val != "" {
				setByPath(configMap, key, val)
				slog.Debug("Loaded env binding", "env", envKey, "path", key)
			}
		}
	}

	if o.cmd != nil {
		for _, key := range keys {
			flag := strings.ReplaceAll(key, ".", "-")
			if o.cmd.IsSet(flag) {
				setByPath(configMap, key, o.cmd.Value(flag))
			}
		}
	}

	var cfg Config
	if err := decode(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	return &cfg, nil
}

// mergeFirstFile merges the first readable file of paths into dst. ${VAR}
// references in the file are expanded against env before parsing; unknown
// references are left as written. When required, a missing file is an error.
func mergeFirstFile(dst map[string]any, paths []string, required bool, env map[string]string) error {
	envStore := vardata.New()
	for name, value := range env {
		envStore.SetVar(name, value)
	}
	expander := vardata.NewExpander(vardata.WithEvaluator(vardata.DisabledEvaluator))

	for _, path := range paths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			if required {
				return fmt.Errorf("config: %w", err)
			}
			continue
		}

		expanded, err := expander.Expand(string(content), envStore)
		if err != nil {
			return fmt.Errorf("config: expand %s: %w", path, err)
		}
		fileMap, err := parse(path, []byte(expanded))
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		mergeMaps(dst, fileMap)
		slog.Debug("Loaded config from file", "path", path)

		return nil
	}
	slog.Debug("No config file found, using defaults")

	return nil
}

func parse(path string, content []byte) (map[string]any, error) {
	var raw map[string]any
	var err error
	if vardata.FormatFromPath(path) == vardata.FormatJSON {
		err = json.Unmarshal(jsonc.ToJSON(content), &raw)
	} else {
		err = yamlv3.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	return raw, nil
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if valueMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, valueMap)
				continue
			}
		}

		dst[key] = value
	}
}

func setByPath(dst map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := dst
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// flattenKeys returns the sorted leaf paths of data, e.g. "expand.max-length".
func flattenKeys(data map[string]any) []string {
	var keys []string
	var walk func(m map[string]any, prefix string)
	walk = func(m map[string]any, prefix string) {
		for key, value := range m {
			if prefix != "" {
				key = prefix + "." + key
			}
			if child, ok := value.(map[string]any); ok {
				walk(child, key)
				continue
			}
			keys = append(keys, key)
		}
	}
	walk(data, "")
	slices.Sort(keys)

	return keys
}

func decode(data map[string]any, out *Config) error {
	if out == nil {
		return errors.New("nil config")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
