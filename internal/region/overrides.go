package region

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// overridesFile is the on-disk shape of a region overrides file:
//
//	countries:
//	  - country: Mexico
//	    regions:
//	      Jalisco: JAL
//	    cities:
//	      Guadalajara: JAL
type overridesFile struct {
	Countries []Table `yaml:"countries"`
}

// LoadOverrides reads additional region tables from a YAML file.
func LoadOverrides(path string) ([]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read overrides %s", path)
	}

	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "region: parse overrides")
	}

	for i, t := range f.Countries {
		if t.Country == "" {
			return nil, eris.Errorf("region: overrides entry %d has no country", i)
		}
	}
	return f.Countries, nil
}

// Load returns a registry over the built-in tables, extended by the overrides
// file at path when path is non-empty.
func Load(path string) (*Registry, error) {
	tables := Builtin()
	if path != "" {
		extra, err := LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, extra...)
	}
	return NewRegistry(tables...), nil
}
