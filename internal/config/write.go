package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned by WriteDefault when the target file is present and
// overwriting was not requested
var ErrExists = errors.New("config file already exists")

// DefaultYAML renders the built-in defaults as a YAML document
func DefaultYAML() ([]byte, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(k.Raw()); err != nil {
		return nil, errors.Wrap(err, "encode defaults")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode defaults")
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default config to path, creating parent
// directories. Existing files are kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrap(ErrExists, path)
		}
	}

	data, err := DefaultYAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
