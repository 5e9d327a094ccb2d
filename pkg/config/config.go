package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Data     DataConfig
	Scale    ScaleConfig
	Defaults DefaultsConfig
	Log      LogConfig
}

// DataConfig locates the record store and export output.
type DataConfig struct {
	StorePath string
	ExportDir string
}

// ScaleConfig defines the grade scale applied to every program.
// Best < Worst means lower grades are better (German 1.0..6.0 scale).
type ScaleConfig struct {
	Best      float64
	Worst     float64
	PassLimit float64
}

// DefaultsConfig seeds new records and CSV-created modules.
type DefaultsConfig struct {
	ProgramName   string
	TotalCredits  int
	TargetAverage float64
	ModuleCredits int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Data = DataConfig{
		StorePath: v.GetString("DATA_STORE_PATH"),
		ExportDir: v.GetString("DATA_EXPORT_DIR"),
	}

	cfg.Scale = ScaleConfig{
		Best:      v.GetFloat64("SCALE_BEST"),
		Worst:     v.GetFloat64("SCALE_WORST"),
		PassLimit: v.GetFloat64("SCALE_PASS_LIMIT"),
	}

	cfg.Defaults = DefaultsConfig{
		ProgramName:   v.GetString("DEFAULT_PROGRAM_NAME"),
		TotalCredits:  v.GetInt("DEFAULT_TOTAL_CREDITS"),
		TargetAverage: v.GetFloat64("DEFAULT_TARGET_AVERAGE"),
		ModuleCredits: v.GetInt("DEFAULT_MODULE_CREDITS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DATA_STORE_PATH", "data/record.json")
	v.SetDefault("DATA_EXPORT_DIR", "exports")
	v.SetDefault("SCALE_BEST", 1.0)
	v.SetDefault("SCALE_WORST", 6.0)
	v.SetDefault("SCALE_PASS_LIMIT", 4.0)
	v.SetDefault("DEFAULT_PROGRAM_NAME", "Informatik Bachelor")
	v.SetDefault("DEFAULT_TOTAL_CREDITS", 180)
	v.SetDefault("DEFAULT_TARGET_AVERAGE", 2.0)
	v.SetDefault("DEFAULT_MODULE_CREDITS", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}
