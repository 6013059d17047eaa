package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keyscribe/keyscribe/internal/processor"
)

// ReadConfig reads a YAML config file on top of the defaults of a profile.
// A profile named in the file takes precedence over the given one. Fields
// absent from the file keep their defaults.
func ReadConfig(fsys fs.FS, configFile string, profile processor.Profile) (*processor.Config, error) {
	data, err := fs.ReadFile(fsys, configFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", configFile, err)
	}
	return DecodeConfig(data, profile)
}

// DecodeConfig decodes YAML config data on top of the defaults of a profile.
func DecodeConfig(data []byte, profile processor.Profile) (*processor.Config, error) {
	var header struct {
		Profile *processor.Profile `yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if header.Profile != nil {
		profile = *header.Profile
	}
	config := processor.DefaultConfig(profile)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	return &config, nil
}

// WriteConfig writes a config as YAML.
func WriteConfig(configFile string, config *processor.Config) (err error) {
	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", configFile, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2) // Match yq.
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("could not encode %v: %w", configFile, err)
	}
	return enc.Close()
}
