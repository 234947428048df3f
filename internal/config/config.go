package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Email         EmailConfig         `mapstructure:"email"`
	Workflow      WorkflowConfig      `mapstructure:"workflow"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Logger        LoggerConfig        `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// StorageConfig holds attachment storage configuration. When Backend is
// "s3" the bucket and region are used; "local" serves files from LocalDir.
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	BaseURL  string `mapstructure:"base_url"`
	LocalDir string `mapstructure:"local_dir"`
}

// EmailConfig holds outbound email configuration
type EmailConfig struct {
	SenderAddress string `mapstructure:"sender_address"`
	SenderName    string `mapstructure:"sender_name"`
}

// WorkflowConfig holds approval workflow configuration
type WorkflowConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

// NotificationsConfig holds notification worker configuration
type NotificationsConfig struct {
	QueueSize   int           `mapstructure:"queue_size"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/workflow.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Storage defaults
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local_dir", "uploads")
	viper.SetDefault("storage.base_url", "http://localhost:8080/uploads")

	// Email defaults
	viper.SetDefault("email.sender_name", "Workflow Notifications")

	// Workflow defaults
	viper.SetDefault("workflow.strict_transitions", false)

	// Notification defaults
	viper.SetDefault("notifications.queue_size", 64)
	viper.SetDefault("notifications.send_timeout", 30*time.Second)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("storage.backend", "STORAGE_BACKEND")
	viper.BindEnv("storage.bucket", "STORAGE_BUCKET")
	viper.BindEnv("storage.region", "AWS_REGION")
	viper.BindEnv("storage.base_url", "STORAGE_BASE_URL")
	viper.BindEnv("email.sender_address", "EMAIL_SENDER_ADDRESS")
	viper.BindEnv("email.sender_name", "EMAIL_SENDER_NAME")
	viper.BindEnv("workflow.strict_transitions", "WORKFLOW_STRICT_TRANSITIONS")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Email.SenderAddress == "" {
		return fmt.Errorf("email.sender_address is required")
	}

	switch c.Storage.Backend {
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required for the local backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.BaseURL == "" {
		return fmt.Errorf("storage.base_url is required")
	}

	if c.Notifications.QueueSize <= 0 {
		return fmt.Errorf("notifications.queue_size must be positive")
	}

	return nil
}
