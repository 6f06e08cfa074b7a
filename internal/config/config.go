package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

// Supported database drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	Port        int      `yaml:"port" env:"PORT"`
	GinMode     string   `yaml:"gin_mode" env:"GIN_MODE"`
	ClientURL   string   `yaml:"client_url" env:"CLIENT_URL"`
	AdminEmails []string `yaml:"admin_emails" env:"ADMIN_EMAILS" envSeparator:","`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
}

type MongoConfig struct {
	URI            string `yaml:"uri" env:"MONGO_URI"`
	Database       string `yaml:"database" env:"MONGO_DATABASE"`
	ConnectTimeout string `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
	AccessTTL string `yaml:"access_ttl" env:"JWT_EXPIRE"`
}

type VerificationConfig struct {
	TTL          string `yaml:"ttl" env:"VERIFICATION_TTL"`
	ResendWindow string `yaml:"resend_window" env:"VERIFICATION_RESEND_WINDOW"`
}

type BookingConfig struct {
	IDPrefix string `yaml:"id_prefix" env:"BOOKING_ID_PREFIX"`
	Timezone string `yaml:"timezone" env:"BOOKING_TIMEZONE"`
}

type MailConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path" env:"CASBIN_MODEL_PATH"`
}

type RateLimitConfig struct {
	Limit  int    `yaml:"limit" env:"RATE_LIMIT"`
	Window string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Mongo        MongoConfig        `yaml:"mongo"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Verification VerificationConfig `yaml:"verification"`
	Booking      BookingConfig      `yaml:"booking"`
	Mail         MailConfig         `yaml:"mail"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Casbin       CasbinConfig       `yaml:"casbin"`
	RateLimit    RateLimitConfig    `yaml:"ratelimit"`
	Log          LogConfig          `yaml:"log"`
}

type Config struct {
	Port                string
	GinMode             string
	ClientURL           string
	AdminEmails         []string
	DatabaseDriver      string
	DSN                 string
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	JWTSecret           string
	JWTIssuer           string
	AccessTTL           time.Duration
	VerificationTTL     time.Duration
	VerificationResend  time.Duration
	BookingIDPrefix     string
	BookingLocation     *time.Location
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
	TwilioSID           string
	TwilioToken         string
	TwilioFrom          string
	KafkaBrokers        []string
	KafkaTopic          string
	CasbinModelPath     string
	RateLimit           int
	RateLimitWindow     time.Duration
	LogLevel            string
	LogDevelopment      bool
}

// Defaults returns the configuration file used when no YAML is present
func Defaults() *ConfigFile {
	return &ConfigFile{
		App:      AppConfig{Port: 5000, GinMode: "release", ClientURL: "http://localhost:5173"},
		Database: DatabaseConfig{Driver: DriverMongo},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "shreeai",
			ConnectTimeout: "30s",
		},
		Redis:        RedisConfig{Addr: "localhost:6379"},
		JWT:          JWTConfig{Issuer: "leadsvc", AccessTTL: "168h"},
		Verification: VerificationConfig{TTL: "10m", ResendWindow: "30s"},
		Booking:      BookingConfig{IDPrefix: "SHREEAI-", Timezone: "Local"},
		Mail:         MailConfig{Port: 587},
		Kafka:        KafkaConfig{Topic: "bookings"},
		RateLimit:    RateLimitConfig{Limit: 30, Window: "1m"},
		Log:          LogConfig{Level: "info"},
	}
}

// Load reads .env, the YAML file at CONFIG_PATH (default config/config.yml)
// and then applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	configFile, err := loadConfigFile(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		configFile = Defaults()
	}

	if err := env.Parse(configFile); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return Build(configFile)
}

// Build converts a parsed ConfigFile into a validated Config
func Build(configFile *ConfigFile) (*Config, error) {
	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	codeTTL, err := time.ParseDuration(configFile.Verification.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.Verification.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid verification resend window: %w", err)
	}

	rateWnd, err := time.ParseDuration(configFile.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	mongoTimeout, err := time.ParseDuration(configFile.Mongo.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo connect timeout: %w", err)
	}

	loc, err := time.LoadLocation(configFile.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone: %w", err)
	}

	cfg := &Config{
		Port:                fmt.Sprintf("%d", configFile.App.Port),
		GinMode:             configFile.App.GinMode,
		ClientURL:           configFile.App.ClientURL,
		AdminEmails:         configFile.App.AdminEmails,
		DatabaseDriver:      strings.ToLower(configFile.Database.Driver),
		DSN:                 configFile.Database.DSN,
		MongoURI:            configFile.Mongo.URI,
		MongoDatabase:       configFile.Mongo.Database,
		MongoConnectTimeout: mongoTimeout,
		RedisAddr:           configFile.Redis.Addr,
		RedisPassword:       configFile.Redis.Password,
		RedisDB:             configFile.Redis.DB,
		JWTSecret:           configFile.JWT.Secret,
		JWTIssuer:           configFile.JWT.Issuer,
		AccessTTL:           accTTL,
		VerificationTTL:     codeTTL,
		VerificationResend:  resWnd,
		BookingIDPrefix:     configFile.Booking.IDPrefix,
		BookingLocation:     loc,
		SMTPHost:            configFile.Mail.Host,
		SMTPPort:            configFile.Mail.Port,
		SMTPUsername:        configFile.Mail.Username,
		SMTPPassword:        configFile.Mail.Password,
		SMTPFrom:            configFile.Mail.From,
		TwilioSID:           configFile.Twilio.AccountSID,
		TwilioToken:         configFile.Twilio.AuthToken,
		TwilioFrom:          configFile.Twilio.FromNumber,
		KafkaBrokers:        configFile.Kafka.Brokers,
		KafkaTopic:          configFile.Kafka.Topic,
		CasbinModelPath:     configFile.Casbin.ModelPath,
		RateLimit:           configFile.RateLimit.Limit,
		RateLimitWindow:     rateWnd,
		LogLevel:            configFile.Log.Level,
		LogDevelopment:      configFile.Log.Development,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret must be set")
	}
	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("mongo uri and database must be set")
		}
	case DriverPostgres, DriverSQLite:
		if c.DSN == "" {
			return fmt.Errorf("database dsn must be set for driver %s", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.VerificationTTL <= 0 {
		return errors.New("verification TTL must be positive")
	}
	return nil
}

// IsAdminEmail reports whether email is configured to receive the admin role
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	config := Defaults()
	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return config, nil
}
