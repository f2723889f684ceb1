// Package config loads the ambient tuning knobs named in SPEC_FULL.md
// §6: wavefront concurrency, default QoS, reservoir sampling capacity,
// and which SQL dialect push-down targets — all YAML-decoded via
// gopkg.in/yaml.v2, the teacher's config-loading library.
package config

import (
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/sqlpush"
)

// Config is the YAML-decoded process configuration of SPEC_FULL.md §6.
type Config struct {
	Wavefronts               int    `yaml:"wavefronts"`
	DefaultQoS               string `yaml:"defaultQoS"`
	ReservoirDefaultCapacity int    `yaml:"reservoirDefaultCapacity"`
	Dialect                  string `yaml:"dialect"`
}

// Defaults are the values Load starts from, so an empty document still
// yields a usable Config. They are not the constructors' own fallbacks:
// stream.NewStreamPuller, for example, takes its wavefront count as an
// argument and clamps values below 1 to 1.
func Defaults() Config {
	return Config{
		Wavefronts:               4,
		DefaultQoS:               "background",
		ReservoirDefaultCapacity: 1000,
		Dialect:                  "standard",
	}
}

// Load decodes YAML config from r, filling in Defaults() for any field
// the document omits.
func Load(r io.Reader) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}

// QoS resolves DefaultQoS to its tabular.QoS value. An unrecognised
// string is treated as QoSBackground, the conservative default.
func (c Config) QoS() tabular.QoS {
	if strings.EqualFold(c.DefaultQoS, "userInitiated") {
		return tabular.QoSUserInitiated
	}
	return tabular.QoSBackground
}

// dialects is the registered vendor-neutral dialect name table; vendor
// packages extend it at init time via Register.
var dialects = map[string]sqlpush.Dialect{
	"standard": sqlpush.NewStandardDialect(),
}

// Register adds a named dialect to the table Config.ResolveDialect
// looks up against, for vendor-specific sqlpush.Dialect
// implementations outside this module.
func Register(name string, d sqlpush.Dialect) {
	dialects[strings.ToLower(name)] = d
}

// ResolveDialect looks up Dialect by name, defaulting to
// sqlpush.StandardDialect when unset or unrecognised.
func (c Config) ResolveDialect() sqlpush.Dialect {
	if d, ok := dialects[strings.ToLower(c.Dialect)]; ok {
		return d
	}
	return sqlpush.NewStandardDialect()
}
