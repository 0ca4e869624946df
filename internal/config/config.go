package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type EscrowConfig struct {
	Env         string `yaml:"env" env:"ESCROW_ENV" env-default:"local"`
	HTTPServer  `yaml:"http_server"`
	GRPCServer  `yaml:"grpc_server"`
	EscrowDB    `yaml:"escrow_db"`
	LogConfig   `yaml:"log_config"`
	Kafka       `yaml:"kafka"`
	Redis       `yaml:"redis"`
	Stripe      `yaml:"stripe"`
	MobileMoney `yaml:"mobile_money"`
	Quote       `yaml:"quote"`
	Release     `yaml:"release"`
	Auth        `yaml:"auth"`
	Alerts      `yaml:"alerts"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

type EscrowDB struct {
	Dsn             string        `yaml:"dsn" env:"ESCROW_DB_DSN" env-required:"true"`
	MigrationsPath  string        `yaml:"migrations_path" env:"ESCROW_MIGRATIONS_PATH" env-default:"migrations"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Kafka struct {
	Enabled      bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	EscrowTopic  string   `yaml:"escrow_topic" env-default:"escrow-events"`
	DisputeTopic string   `yaml:"dispute_topic" env-default:"dispute-events"`
}

type Redis struct {
	URL     string        `yaml:"url" env:"REDIS_URL"`
	LockTTL time.Duration `yaml:"lock_ttl" env-default:"2m"`
}

type Stripe struct {
	SecretKey        string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret    string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	RequireSignature bool          `yaml:"require_signature" env:"STRIPE_REQUIRE_SIGNATURE" env-default:"true"`
	SuccessURL       string        `yaml:"success_url" env:"STRIPE_SUCCESS_URL"`
	CancelURL        string        `yaml:"cancel_url" env:"STRIPE_CANCEL_URL"`
	Timeout          time.Duration `yaml:"timeout" env-default:"15s"`
}

type MobileMoney struct {
	Timeout time.Duration       `yaml:"timeout" env-default:"20s"`
	Momo    MobileMoneyProvider `yaml:"momo"`
	Airtel  MobileMoneyProvider `yaml:"airtel"`
}

type MobileMoneyProvider struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type Quote struct {
	DepositPercent    float64 `yaml:"deposit_percent" env:"QUOTE_DEPOSIT_PERCENT" env-default:"0.60"`
	ServiceFeeRate    float64 `yaml:"service_fee_rate" env:"QUOTE_SERVICE_FEE_RATE" env-default:"0.01"`
	ServiceFeeMinimum float64 `yaml:"service_fee_minimum" env:"QUOTE_SERVICE_FEE_MINIMUM" env-default:"5000"`
	InsuranceFee      float64 `yaml:"insurance_fee" env:"QUOTE_INSURANCE_FEE" env-default:"0"`
	DefaultCurrency   string  `yaml:"default_currency" env-default:"RWF"`
}

type Release struct {
	Schedule     string `yaml:"schedule" env:"RELEASE_SCHEDULE"`
	DefaultLimit int    `yaml:"default_limit" env-default:"10"`
	SeedOnBoot   bool   `yaml:"seed_on_boot" env-default:"true"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

type Alerts struct {
	WebhookURL string `yaml:"webhook_url" env:"ADMIN_ALERT_WEBHOOK_URL"`
}

func MustLoad() *EscrowConfig {
	// .env is optional; real environments inject variables directly
	_ = godotenv.Load()

	configPath := os.Getenv("ESCROW_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	return &cfg
}

func (c *EscrowConfig) Validate() error {
	if c.Quote.DepositPercent < 0 || c.Quote.DepositPercent > 1 {
		return fmt.Errorf("quote.deposit_percent must be within [0,1], got %v", c.Quote.DepositPercent)
	}
	if c.Quote.ServiceFeeRate < 0 || c.Quote.ServiceFeeMinimum < 0 || c.Quote.InsuranceFee < 0 {
		return fmt.Errorf("quote fees must not be negative")
	}
	if c.Release.DefaultLimit < 1 || c.Release.DefaultLimit > 100 {
		return fmt.Errorf("release.default_limit must be within [1,100], got %d", c.Release.DefaultLimit)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	return nil
}
