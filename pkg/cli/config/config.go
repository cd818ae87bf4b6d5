package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	path string

	Matrix    *MatrixSection `toml:"matrix"`
	Approvers []Approver     `toml:"approver"`
}

// MatrixSection is the TOML shape of the risk matrix configuration
type MatrixSection struct {
	Version         int    `toml:"version"`
	Size            int    `toml:"size"`
	LowThreshold    int    `toml:"low_threshold"`
	MediumThreshold int    `toml:"medium_threshold"`
	LowColor        string `toml:"low_color"`
	MediumColor     string `toml:"medium_color"`
	HighColor       string `toml:"high_color"`

	Probability []Level `toml:"probability"`
	Severity    []Level `toml:"severity"`
}

// Level represents a probability or severity level definition
type Level struct {
	Level       int    `toml:"level"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Approver represents one entry of the approval roster
type Approver struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Approver is valid
func (a *Approver) Validate() error {
	if err := types.ActorID(a.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid approver ID")
	}
	return nil
}

// Flags returns CLI flags for the application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file (matrix and approval roster)",
			Sources:     cli.EnvVars("SAFESPHERE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configured file path, empty when running on defaults
func (a *AppConfig) Path() string {
	return a.path
}

// Configure loads and validates the configuration file. Without a path the
// built-in default matrix and an empty approval roster are returned.
func (a *AppConfig) Configure() (*domainConfig.MatrixConfig, []types.ActorID, error) {
	if a.path == "" {
		return domainConfig.DefaultMatrixConfig(), nil, nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, goerr.Wrap(ErrConfigNotFound, "cannot read configuration",
				goerr.V(ConfigPathKey, a.path))
		}
		return nil, nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V(ConfigPathKey, a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML",
			goerr.V(ConfigPathKey, a.path), goerr.V("parse_error", err.Error()))
	}

	matrix := domainConfig.DefaultMatrixConfig()
	if a.Matrix != nil {
		matrix = a.Matrix.toDomain()
		if err := matrix.Validate(); err != nil {
			return nil, nil, goerr.Wrap(err, "invalid matrix configuration",
				goerr.V(ConfigPathKey, a.path))
		}
	}

	approvers := make([]types.ActorID, 0, len(a.Approvers))
	seen := make(map[string]bool, len(a.Approvers))
	for i, ap := range a.Approvers {
		if err := ap.Validate(); err != nil {
			return nil, nil, goerr.Wrap(err, "invalid approver entry",
				goerr.V(ConfigPathKey, a.path), goerr.V(ApproverIndexKey, i))
		}
		if seen[ap.ID] {
			return nil, nil, goerr.Wrap(ErrDuplicateApprover, "approver listed twice",
				goerr.V(ConfigPathKey, a.path), goerr.V("id", ap.ID))
		}
		seen[ap.ID] = true
		approvers = append(approvers, types.ActorID(ap.ID))
	}

	return matrix, approvers, nil
}

func (m *MatrixSection) toDomain() *domainConfig.MatrixConfig {
	cfg := &domainConfig.MatrixConfig{
		Version:         m.Version,
		Size:            m.Size,
		LowThreshold:    m.LowThreshold,
		MediumThreshold: m.MediumThreshold,
		LowColor:        m.LowColor,
		MediumColor:     m.MediumColor,
		HighColor:       m.HighColor,
	}

	// A config file only has to override what it cares about; version and
	// colors fall back to the default palette.
	defaults := domainConfig.DefaultMatrixConfig()
	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}
	if cfg.LowColor == "" {
		cfg.LowColor = defaults.LowColor
	}
	if cfg.MediumColor == "" {
		cfg.MediumColor = defaults.MediumColor
	}
	if cfg.HighColor == "" {
		cfg.HighColor = defaults.HighColor
	}

	for _, l := range m.Probability {
		cfg.Probability = append(cfg.Probability, domainConfig.LevelDefinition{
			Level: l.Level, Name: l.Name, Description: l.Description,
		})
	}
	for _, l := range m.Severity {
		cfg.Severity = append(cfg.Severity, domainConfig.LevelDefinition{
			Level: l.Level, Name: l.Name, Description: l.Description,
		})
	}

	return cfg
}
