package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "PAYMENT_CONFIG_PATH"

type PaymentConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	PaymentDB    `yaml:"payment_db"`
	Redis        `yaml:"redis"`
	KafkaService `yaml:"kafka-service"`
	LogConfig    `yaml:"log_config"`
	WechatPay    `yaml:"wechat_pay"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"8s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"65536"`
	NotifyPath      string        `yaml:"notify_path" env:"HTTP_NOTIFY_PATH" env-default:"/api/v1/payments/wechat/notify"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type PaymentDB struct {
	Dsn             string        `yaml:"dsn" env:"PAYMENT_DB_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"PAYMENT_DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"PAYMENT_DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PAYMENT_DB_CONN_MAX_LIFETIME" env-default:"30m"`
	MigrationsPath  string        `yaml:"migrations_path" env:"PAYMENT_DB_MIGRATIONS_PATH"`
}

// Redis with an empty Addr switches the replay cache to the in-process store.
type Redis struct {
	Addr         string        `yaml:"addr" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"2s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"500ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" env-default:"500ms"`
	ReplayTTL    time.Duration `yaml:"replay_ttl" env:"REDIS_REPLAY_TTL" env-default:"1h"`
	KeyPrefix    string        `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"payment:txn:"`
}

// KafkaService with no brokers disables event publication.
type KafkaService struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	SASLMechanism string   `yaml:"sasl_mechanism" env:"KAFKA_SASL_MECHANISM"`
	Username      string   `yaml:"username" env:"KAFKA_USERNAME"`
	Password      string   `yaml:"password" env:"KAFKA_PASSWORD"`
	TLS           bool     `yaml:"tls" env:"KAFKA_TLS"`
	EventsTopic   string   `yaml:"events_topic" env:"KAFKA_EVENTS_TOPIC" env-default:"payment-events"`
	AlertsTopic   string   `yaml:"alerts_topic" env:"KAFKA_ALERTS_TOPIC" env-default:"payment-alerts"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type WechatPay struct {
	APIKey            string        `yaml:"api_key" env:"WECHAT_PAY_API_KEY"`
	SignType          string        `yaml:"sign_type" env:"WECHAT_PAY_SIGN_TYPE" env-default:"MD5"`
	MaxSkew           time.Duration `yaml:"max_skew" env:"WECHAT_PAY_MAX_SKEW" env-default:"5m"`
	TimeEndUTCOffset  time.Duration `yaml:"time_end_utc_offset" env:"WECHAT_PAY_TIME_END_UTC_OFFSET" env-default:"8h"`
	PaymentMethod     string        `yaml:"payment_method" env:"WECHAT_PAY_PAYMENT_METHOD" env-default:"wechat"`
	DefaultMembership time.Duration `yaml:"default_membership_duration" env:"WECHAT_PAY_DEFAULT_MEMBERSHIP_DURATION" env-default:"0s"`
}

// TimeEndLocation is the fixed zone the gateway writes time_end in.
func (w WechatPay) TimeEndLocation() *time.Location {
	if w.TimeEndUTCOffset == 0 {
		return time.UTC
	}
	return time.FixedZone("gateway", int(w.TimeEndUTCOffset/time.Second))
}

func (c *PaymentConfig) HTTPAddr() string {
	return c.HTTPServer.Host + ":" + c.HTTPServer.Port
}

func (c *PaymentConfig) GRPCAddr() string {
	return c.GRPCServer.Host + ":" + c.GRPCServer.Port
}

func Load(configPath string) (*PaymentConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *PaymentConfig) validate() error {
	if c.Dsn == "" {
		return fmt.Errorf("payment_db.dsn is required")
	}
	switch c.SignType {
	case "MD5", "HMAC-SHA256":
	default:
		return fmt.Errorf("wechat_pay.sign_type: unsupported value %q", c.SignType)
	}
	if c.MaxSkew <= 0 {
		return fmt.Errorf("wechat_pay.max_skew must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("http_server.max_body_bytes must be positive")
	}
	switch c.SASLMechanism {
	case "", "plain", "scram-sha-256", "scram-sha-512":
	default:
		return fmt.Errorf("kafka-service.sasl_mechanism: unsupported value %q", c.SASLMechanism)
	}
	return nil
}

func MustLoad() *PaymentConfig {

	// Processing env config variable and file
	configPath := os.Getenv(configPathEnv)

	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}
