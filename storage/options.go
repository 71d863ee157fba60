package storage

import (
	"errors"
	"os"
)

// CoreOptions is the on-disk form of a core's option values.
type CoreOptions struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// LoadCoreOptions returns the stored option values for core, or an empty
// map when none have been saved.
func LoadCoreOptions(core string) (map[string]string, error) {
	path, err := GetCoreOptionsPath(core)
	if err != nil {
		return nil, err
	}
	var opts CoreOptions
	if err := ReadJSON(path, &opts); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	if opts.Values == nil {
		opts.Values = map[string]string{}
	}
	return opts.Values, nil
}

// SaveCoreOptions writes values to options/<core>.json.
func SaveCoreOptions(core string, values map[string]string) error {
	path, err := GetCoreOptionsPath(core)
	if err != nil {
		return err
	}
	return AtomicWriteJSON(path, CoreOptions{Version: 1, Values: values})
}

// OptionFiles stores core options in the options directory.
type OptionFiles struct{}

func (OptionFiles) LoadCoreOptions(core string) (map[string]string, error) {
	return LoadCoreOptions(core)
}

func (OptionFiles) SaveCoreOptions(core string, values map[string]string) error {
	return SaveCoreOptions(core, values)
}
