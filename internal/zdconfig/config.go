// Package zdconfig loads optional defaults for zd's flags from
// ~/.zdrc.yaml, mirroring cmd/ctrlc's initConfig/viper pattern. Flags
// passed on the command line always take precedence; the file only
// supplies values the invocation didn't set explicitly.
package zdconfig

import (
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const configName = ".zdrc"

// Defaults mirrors the subset of flags a user might want to pin across
// invocations (spec.md §6). Zero values mean "not set in the file."
type Defaults struct {
	BlockSize uint32
	FillValue *byte
	Max       int
	Retry     int
}

// Load reads ~/.zdrc.yaml if present and returns the defaults found in
// it. A missing file is not an error — it just means no overrides.
// cfgFile, if non-empty, names an explicit config path instead of the
// home-directory default.
func Load(cfgFile string) (*Defaults, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("could not resolve home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return &Defaults{}, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	d := &Defaults{
		BlockSize: uint32(v.GetUint32("block-size")),
		Max:       v.GetInt("max"),
		Retry:     v.GetInt("retry"),
	}
	if v.IsSet("fill-value") {
		fv := byte(v.GetUint("fill-value"))
		d.FillValue = &fv
	}
	return d, nil
}
