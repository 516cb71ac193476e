package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a pipeline document decodes but fails
// validation.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Config is the typed view of the pipeline config.yaml.
type Config struct {
	ArtifactsRoot    string                 `mapstructure:"artifacts_root" json:"artifacts_root"`
	DataIngestion    DataIngestionConfig    `mapstructure:"data_ingestion" json:"data_ingestion"`
	PrepareBaseModel PrepareBaseModelConfig `mapstructure:"prepare_base_model" json:"prepare_base_model"`
	Training         TrainingConfig         `mapstructure:"training" json:"training"`
}

// DataIngestionConfig describes where the dataset is downloaded and unpacked.
type DataIngestionConfig struct {
	RootDir       string `mapstructure:"root_dir" json:"root_dir"`
	SourceURL     string `mapstructure:"source_URL" json:"source_URL"`
	LocalDataFile string `mapstructure:"local_data_file" json:"local_data_file"`
	UnzipDir      string `mapstructure:"unzip_dir" json:"unzip_dir"`
}

type PrepareBaseModelConfig struct {
	RootDir              string `mapstructure:"root_dir" json:"root_dir"`
	BaseModelPath        string `mapstructure:"base_model_path" json:"base_model_path"`
	UpdatedBaseModelPath string `mapstructure:"updated_base_model_path" json:"updated_base_model_path"`
}

type TrainingConfig struct {
	RootDir          string `mapstructure:"root_dir" json:"root_dir"`
	TrainedModelPath string `mapstructure:"trained_model_path" json:"trained_model_path"`
}

// Params is the typed view of params.yaml.
type Params struct {
	Augmentation bool    `mapstructure:"AUGMENTATION" json:"AUGMENTATION"`
	ImageSize    []int   `mapstructure:"IMAGE_SIZE" json:"IMAGE_SIZE"`
	BatchSize    int     `mapstructure:"BATCH_SIZE" json:"BATCH_SIZE"`
	IncludeTop   bool    `mapstructure:"INCLUDE_TOP" json:"INCLUDE_TOP"`
	Epochs       int     `mapstructure:"EPOCHS" json:"EPOCHS"`
	Classes      int     `mapstructure:"CLASSES" json:"CLASSES"`
	Weights      string  `mapstructure:"WEIGHTS" json:"WEIGHTS"`
	LearningRate float64 `mapstructure:"LEARNING_RATE" json:"LEARNING_RATE"`
}

// DecodeConfig decodes and validates a pipeline config document.
func DecodeConfig(doc Document) (*Config, error) {
	var cfg Config
	if err := doc.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every pipeline stage relies on.
func (c *Config) Validate() error {
	if c.ArtifactsRoot == "" {
		return fmt.Errorf("%w: artifacts_root is required", ErrInvalidConfig)
	}
	return nil
}

// Directories lists the directories the pipeline expects to exist, artifacts
// root first, without duplicates.
func (c *Config) Directories() []string {
	candidates := []string{
		c.ArtifactsRoot,
		c.DataIngestion.RootDir,
		c.PrepareBaseModel.RootDir,
		c.Training.RootDir,
	}

	seen := make(map[string]bool, len(candidates))
	var dirs []string
	for _, dir := range candidates {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// DecodeParams decodes and validates a params document.
func DecodeParams(doc Document) (*Params, error) {
	var p Params
	if err := doc.Decode(&p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Params) Validate() error {
	if len(p.ImageSize) != 3 {
		return fmt.Errorf("%w: IMAGE_SIZE must have 3 elements (height, width, channels), got %d", ErrInvalidConfig, len(p.ImageSize))
	}
	for _, n := range p.ImageSize {
		if n <= 0 {
			return fmt.Errorf("%w: IMAGE_SIZE values must be positive, got %v", ErrInvalidConfig, p.ImageSize)
		}
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("%w: BATCH_SIZE must be positive", ErrInvalidConfig)
	}
	if p.Epochs <= 0 {
		return fmt.Errorf("%w: EPOCHS must be positive", ErrInvalidConfig)
	}
	return nil
}

// InputSize returns the square edge used to prepare images for the model.
func (p *Params) InputSize() int {
	if len(p.ImageSize) == 0 {
		return 0
	}
	return p.ImageSize[0]
}
