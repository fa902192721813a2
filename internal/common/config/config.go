// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct, shared by all batch jobs.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Tracking    TrackingConfig    `mapstructure:"tracking"`
	SMS         SMSConfig         `mapstructure:"sms"`
	Alerts      AlertConfig       `mapstructure:"alerts"`
	ActivityLog ActivityLogConfig `mapstructure:"activity_log"`
	Lookup      LookupConfig      `mapstructure:"lookup"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TrackingConfig holds settings for the external tracking snapshot provider
// and the new-application feed.
type TrackingConfig struct {
	SnapshotURL       string `mapstructure:"snapshot_url"`
	NewApplicationURL string `mapstructure:"new_application_url"`
	LocalSnapshotPath string `mapstructure:"local_snapshot_path"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds
}

// SMSConfig holds settings for the external messaging provider.
type SMSConfig struct {
	APIURL          string `mapstructure:"api_url"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Sender          string `mapstructure:"sender"`
	TrackingBaseURL string `mapstructure:"tracking_base_url"`
	TextTemplate    string `mapstructure:"text_template"` // %s is replaced with the tracking link
	SendDelay       int    `mapstructure:"send_delay"`    // milliseconds between consecutive sends
	Timeout         int    `mapstructure:"timeout"`       // milliseconds
	MaxRetries      int    `mapstructure:"max_retries"`   // resend ceiling per failure record, 0 = unbounded
}

// AlertConfig holds settings for operator e-mail alerts on fatal sync failures.
type AlertConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AWSRegion string `mapstructure:"aws_region"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`
}

// ActivityLogConfig holds settings for the append-only diagnostic logs.
type ActivityLogConfig struct {
	Dir       string `mapstructure:"dir"`
	ESEnabled bool   `mapstructure:"es_enabled"`
	ESIndex   string `mapstructure:"es_index"`
}

// LookupConfig holds settings for the public lookup API binary.
type LookupConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
