package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cstrgen/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	RustConfig struct {
		UnsafeAttributes bool   `yaml:"unsafe_attributes"`
		CharType         string `yaml:"char_type" validate:"required"`
		TemplatePath     string `yaml:"template_path" sanitize:"assure_file_access"`
	}

	CConfig struct {
		CharType           string `yaml:"char_type" validate:"required"`
		SourceTemplatePath string `yaml:"source_template_path" sanitize:"assure_file_access"`
		HeaderTemplatePath string `yaml:"header_template_path" sanitize:"assure_file_access"`
	}

	GeneratorConfig struct {
		Narrowing             common.NarrowingPolicy `yaml:"narrowing" validate:"gte=0,lte=2"`
		Charset               string                 `yaml:"charset" validate:"required_if=Narrowing 2"`
		Visibility            common.Visibility      `yaml:"visibility" validate:"gte=0,lte=1"`
		SuppressUnusedWarning bool                   `yaml:"suppress_unused_warning"`
		SuppressNamingWarning bool                   `yaml:"suppress_naming_warning"`
		WrapWidth             int                    `yaml:"wrap_width" validate:"gte=0"`
		SourceExtensions      []string               `yaml:"source_extensions" validate:"min=1,dive,required"`
		OutputNameTemplate    string                 `yaml:"output_name_template"`
		FileNameTransliterate bool                   `yaml:"file_name_transliterate"`
		Rust                  RustConfig             `yaml:"rust"`
		C                     CConfig                `yaml:"c"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Generator GeneratorConfig `yaml:"generator"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
