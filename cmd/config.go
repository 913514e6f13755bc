package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/kamusis/shelf/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides: s3.endpoint is SHELF_S3_ENDPOINT.
const envPrefix = "SHELF"

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"content":     "content",
	"out":         "out",
	"sorted":      "sorted",
	"exclude":     "excludes",
	"catalog-key": "catalog_key",
	"base-url":    "base_url",
	"timeout":     "timeout",
	"addr":        "serve.addr",
	"rate":        "serve.rate",
	"width":       "preview.width",
	"height":      "preview.height",
	"punch":       "preview.punch",
}

// envKeys are bound explicitly since omitted YAML fields are unknown to viper.
var envKeys = []string{
	"content", "out", "sorted", "excludes", "catalog_key",
	"base_url", "manifest_path", "content_prefix", "timeout", "cache_size", "cache_ttl",
	"preview.width", "preview.height", "preview.punch",
	"serve.addr", "serve.rate",
	"s3.endpoint", "s3.region", "s3.access_key", "s3.secret_key",
}

// loadConfig layers the config file, dotenv files, SHELF_* variables and the
// flags set on cmd, in increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	base, err := readConfigFile(flagConfig)
	if err != nil {
		return nil, err
	}

	dotenv, err := config.DotEnvPath()
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(".env", dotenv); err != nil {
		return nil, err
	}

	m, err := base.Map()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	if err := v.MergeConfigMap(m); err != nil {
		return nil, fmt.Errorf("cannot merge config: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("cannot bind %s: %w", k, err)
		}
	}
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("cannot bind --%s: %w", name, err)
		}
	}

	out := config.Default()
	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, p := range []*string{&out.Content, &out.Out} {
		if *p, err = config.ExpandPath(*p); err != nil {
			return nil, err
		}
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return out, nil
}

// readConfigFile loads path, or the default location when path is empty. A
// missing default file yields the built-in defaults.
func readConfigFile(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := config.ConfigPath()
		if err != nil {
			return config.Default(), nil
		}
		path = p
	}
	c, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return c, nil
}
