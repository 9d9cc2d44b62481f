package config

import (
	"fmt"

	"epraja-api/models"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — populated by Load
var JWTSecret []byte

// Config holds all runtime settings, resolved from defaults, an optional
// config file, and EPRAJA_* environment variables (in increasing precedence).
type Config struct {
	Port         string  `mapstructure:"port"`
	GinMode      string  `mapstructure:"gin_mode"`
	DBPath       string  `mapstructure:"db_path"`
	JWTSecret    string  `mapstructure:"jwt_secret"`
	UploadDir    string  `mapstructure:"upload_dir"`
	BaseURL      string  `mapstructure:"base_url"`
	MonthlyPrice float64 `mapstructure:"monthly_price"`
	TrialDays    int     `mapstructure:"trial_days"`
}

// Load reads configuration. cfgFile may be empty, in which case only
// defaults and environment variables apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("db_path", "epraja.db")
	v.SetDefault("jwt_secret", "epraja_super_secret_2025")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("monthly_price", 49.90)
	v.SetDefault("trial_days", 7)

	v.SetEnvPrefix("EPRAJA")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	JWTSecret = []byte(cfg.JWTSecret)
	return &cfg, nil
}

// InitDB opens the database and migrates all models
func InitDB(path string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	return Migrate(DB)
}

// Migrate runs the schema migration on the given handle. Split out so tests
// can run against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.CourierAssignment{},
		&models.BroadcastMessage{},
	)
}
