// Package config loads map-translate settings from flags, environment and an
// optional YAML file through viper.
//
// Keys are dotted ("ocr.languages"). Environment variables use the
// MAP_TRANSLATE prefix with dots replaced by underscores, for example
// MAP_TRANSLATE_OCR_MIN_CONFIDENCE=0.4.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/map-translate/internal/imaging"
	"github.com/ironsheep/map-translate/internal/ocr"
)

const (
	EnvPrefix = "MAP_TRANSLATE"
	FileName  = ".map-translate"
)

// Config is the typed view of all settings.
type Config struct {
	OCR        OCRConfig          `mapstructure:"ocr"`
	Preprocess PreprocessConfig   `mapstructure:"preprocess"`
	Output     OutputConfig       `mapstructure:"output"`
	Overlay    imaging.LabelStyle `mapstructure:"overlay"`
	Translate  TranslateConfig    `mapstructure:"translate"`
	Log        LogConfig          `mapstructure:"log"`
}

type OCRConfig struct {
	Languages     []string `mapstructure:"languages"`
	Level         string   `mapstructure:"level"`
	MinConfidence float64  `mapstructure:"min_confidence"`
}

type PreprocessConfig struct {
	// Contrast is passed to imaging.Enhance (-1 to 1).
	Contrast float64 `mapstructure:"contrast"`
}

type OutputConfig struct {
	// Dir holds the results_<timestamp> directories. Empty means next to the image.
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

type TranslateConfig struct {
	// Clean runs CleanText over every translated label.
	Clean bool `mapstructure:"clean"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for AutomaticEnv to reach them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	style := imaging.DefaultLabelStyle()

	v.SetDefault("ocr.languages", ocr.DefaultLanguages)
	v.SetDefault("ocr.level", string(ocr.LevelLine))
	v.SetDefault("ocr.min_confidence", 0.0)
	v.SetDefault("preprocess.contrast", imaging.DefaultContrast)
	v.SetDefault("output.dir", "")
	v.SetDefault("output.debug", true)
	v.SetDefault("overlay.point_color", style.PointColor)
	v.SetDefault("overlay.text_color", style.TextColor)
	v.SetDefault("overlay.background_color", style.BackgroundColor)
	v.SetDefault("overlay.point_radius", style.PointRadius)
	v.SetDefault("overlay.ascii_only", style.ASCIIOnly)
	v.SetDefault("translate.clean", false)
	v.SetDefault("log.debug", false)
}

// Init prepares v: defaults, environment binding and the config file.
// With cfgFile empty it looks for .map-translate.yaml in $HOME and the
// working directory; a missing file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in defaults: %v", err))
	}
	return cfg
}

// Validate checks value ranges. Colour strings are checked when drawing.
func (c *Config) Validate() error {
	if len(c.OCR.Languages) == 0 {
		return errors.New("ocr.languages must not be empty")
	}
	switch ocr.Level(c.OCR.Level) {
	case ocr.LevelWord, ocr.LevelLine, ocr.LevelBlock:
	default:
		return fmt.Errorf("ocr.level must be word, line or block, got %q", c.OCR.Level)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("ocr.min_confidence must be between 0 and 1, got %v", c.OCR.MinConfidence)
	}
	if c.Preprocess.Contrast < -1 || c.Preprocess.Contrast > 1 {
		return fmt.Errorf("preprocess.contrast must be between -1 and 1, got %v", c.Preprocess.Contrast)
	}
	if c.Overlay.PointRadius < 0 {
		return fmt.Errorf("overlay.point_radius must not be negative, got %d", c.Overlay.PointRadius)
	}
	return nil
}

// Recognizer builds the OCR backend described by c.
func (c *Config) Recognizer() *ocr.Tesseract {
	return &ocr.Tesseract{
		Languages:     append([]string(nil), c.OCR.Languages...),
		Level:         ocr.Level(c.OCR.Level),
		MinConfidence: c.OCR.MinConfidence,
	}
}
