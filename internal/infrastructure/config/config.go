package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Gateways  GatewaysConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings.
// Driver selects between postgres and sqlite; sqlite uses Path.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// DSN builds the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// JWTConfig holds access token settings
type JWTConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	ExpirationHours int
}

// TTL returns the effective token lifetime
func (c JWTConfig) TTL() time.Duration {
	if c.AccessTokenTTL > 0 {
		return c.AccessTokenTTL
	}
	if c.ExpirationHours > 0 {
		return time.Duration(c.ExpirationHours) * time.Hour
	}
	return 24 * time.Hour
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	OverdueCheckInterval time.Duration
}

// GatewaysConfig holds payment gateway credentials
type GatewaysConfig struct {
	VNPay   VNPayConfig
	MoMo    MoMoConfig
	ZaloPay ZaloPayConfig
}

// VNPayConfig holds VNPay sandbox credentials
type VNPayConfig struct {
	MerchantID string
	SecureHash string
	BaseURL    string
}

// MoMoConfig holds MoMo sandbox credentials
type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	BaseURL     string
}

// ZaloPayConfig holds ZaloPay sandbox credentials
type ZaloPayConfig struct {
	AppID   string
	Key1    string
	BaseURL string
}

// Load reads configuration from config.toml and PAYDESK_* environment
// variables. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("PAYDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "paydesk")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "paydesk")
	v.SetDefault("database.password", "paydesk")
	v.SetDefault("database.dbname", "paydesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "paydesk.db")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 30)

	v.SetDefault("jwt.issuer", "paydesk")
	v.SetDefault("jwt.expirationhours", 24)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("scheduler.overduecheckinterval", 24*time.Hour)

	v.SetDefault("gateways.vnpay.baseurl", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	v.SetDefault("gateways.momo.baseurl", "https://test-payment.momo.vn/v2/gateway/pay")
	v.SetDefault("gateways.zalopay.baseurl", "https://sandbox.zalopay.com.vn/v001/tpe/createorder")
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.App.Env == "production" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		c.JWT.Secret = "development-only-secret"
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
