package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/jo-hoe/seoseed/internal/backend/commandstructure"
	"github.com/jo-hoe/seoseed/internal/backend/commands"
	"github.com/jo-hoe/seoseed/internal/common"
	"gopkg.in/yaml.v3"
)

// Keys under which the generated images are stored.
const (
	CoverImageKey = "seo_cover_image"
	LogoKey       = "seo_logo"
	FaviconKey    = "seo_favicon"
)

type Database struct {
	Type             string `yaml:"type" validate:"required,oneof=wrangler sqlite redis"`
	ConnectionString string `yaml:"connectionString"`
	Table            string `yaml:"table"`
}

// Wrangler parameterizes the external CLI invocation for the wrangler database type.
type Wrangler struct {
	WorkDir     string `yaml:"workDir"`
	NvmScript   string `yaml:"nvmScript"`
	NodeVersion string `yaml:"nodeVersion"`
	Binary      string `yaml:"binary"`
	Database    string `yaml:"database"`
	Remote      bool   `yaml:"remote"`
}

// ImageConfig binds a settings key to the generator command that produces its value.
type ImageConfig struct {
	Key     string                         `yaml:"key" validate:"required"`
	Command commandstructure.CommandConfig `yaml:"command"`
}

type ServiceConfig struct {
	Port       int           `yaml:"port" validate:"gte=0,lte=65535"`
	LogLevel   string        `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	Verify     bool          `yaml:"verify"`
	ScratchDir string        `yaml:"scratchDir"`
	Database   Database      `yaml:"database"`
	Wrangler   Wrangler      `yaml:"wrangler"`
	Images     []ImageConfig `yaml:"images" validate:"dive"`
}

// DefaultImages returns the cover, logo and favicon generators in upload order.
func DefaultImages() []ImageConfig {
	return []ImageConfig{
		{
			Key: CoverImageKey,
			Command: commandstructure.CommandConfig{
				Name:   "CoverImageCommand",
				Params: map[string]any{"fontPath": commands.DefaultFontPath},
			},
		},
		{Key: LogoKey, Command: commandstructure.CommandConfig{Name: "LogoImageCommand"}},
		{Key: FaviconKey, Command: commandstructure.CommandConfig{Name: "FaviconImageCommand"}},
	}
}

// DefaultConfig targets the remote "ocus-tickets" D1 database, reached
// through wrangler under Node 20.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:     8080,
		LogLevel: "info",
		Database: Database{
			Type:  "wrangler",
			Table: "settings",
		},
		Wrangler: Wrangler{
			NvmScript:   "~/.nvm/nvm.sh",
			NodeVersion: "20",
			Binary:      "wrangler",
			Database:    "ocus-tickets",
			Remote:      true,
		},
		Images: DefaultImages(),
	}
}

// LoadConfig loads configuration from the specified YAML file on top of DefaultConfig
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// Validate checks struct constraints and that image keys are unique
func (c *ServiceConfig) Validate() error {
	if err := common.Validate(c); err != nil {
		return err
	}
	if c.Database.Type == "wrangler" && c.Wrangler.Database == "" {
		return fmt.Errorf("wrangler.database is required for database type wrangler")
	}
	return validateImages(c.Images)
}

// validateImages ensures every image has a registered command and a unique key
func validateImages(images []ImageConfig) error {
	seenKeys := make(map[string]bool)

	for i, img := range images {
		if img.Command.Name == "" {
			return fmt.Errorf("image at index %d has empty command name", i)
		}
		if !commandstructure.DefaultRegistry.IsRegistered(img.Command.Name) {
			return fmt.Errorf("image %s uses unknown command %s (available: %s)",
				img.Key, img.Command.Name, strings.Join(commandstructure.DefaultRegistry.GetRegisteredNames(), ", "))
		}

		if seenKeys[img.Key] {
			return fmt.Errorf("duplicate image key: %s", img.Key)
		}
		seenKeys[img.Key] = true
	}

	return nil
}
