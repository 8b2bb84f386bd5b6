// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SMS                     `yaml:"sms"`
	PaymentProvider         `yaml:"payment_provider"`
	Subscription            `yaml:"subscription"`
	Registration            `yaml:"registration"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	GRPC                    `yaml:"grpc"`
	Contacts                `yaml:"contacts"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// RateLimit — допустимое число запросов в секунду с одного адреса на открытые ручки регистрации.
	RateLimit float64 `yaml:"rate_limit" env-default:"1"`
	RateBurst int     `yaml:"rate_burst" env-default:"3"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey    string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL        time.Duration `yaml:"token_ttl" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env-default:"720h"`
}

// SMS настройки SMS-шлюза
type SMS struct {
	SMSAPIURL  string        `yaml:"api_url" env-default:"https://sms.ru/sms/send"`
	SMSAPIKey  string        `yaml:"api_key" env:"API_KEY_SMS"`
	SMSTimeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// PaymentProvider настройки платежного провайдера
type PaymentProvider struct {
	SecretKey     string        `yaml:"secret_key" env:"STRIPE_API_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	ProviderURL   string        `yaml:"api_url"`
	SuccessURL    string        `yaml:"success_url" env-default:"http://127.0.0.1:8080/payment-success/?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL     string        `yaml:"cancel_url" env-default:"http://127.0.0.1:8080/subscribe/"`
	Currency      string        `yaml:"currency" env-default:"rub"`
	ProductName   string        `yaml:"product_name" env-default:"Подписка"`
	ProviderTO    time.Duration `yaml:"timeout" env-default:"15s"`
}

// Subscription параметры платной подписки
type Subscription struct {
	// Price в минимальных единицах валюты (копейках).
	Price         int64  `yaml:"price" env-default:"10000"`
	PeriodDays    int    `yaml:"period_days" env-default:"30"`
	SubscribePath string `yaml:"subscribe_path" env-default:"/subscribe/"`
}

// Registration параметры подтверждения телефона
type Registration struct {
	CodeTTL        time.Duration `yaml:"code_ttl" env-default:"10m"`
	MaxAttempts    int           `yaml:"max_attempts" env-default:"5"`
	ResendCooldown time.Duration `yaml:"resend_cooldown" env-default:"60s"`
}

// RabbitMQ настройки брокера сообщений
type RabbitMQ struct {
	URL     string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries int           `yaml:"retries" env-default:"5"`
	Delay   time.Duration `yaml:"delay" env-default:"2s"`
}

// SMTP настройки почтового сервера
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// GRPC настройки служебного gRPC-сервера (health-check)
type GRPC struct {
	AddressGRPC string `yaml:"address" env-default:":50051"`
}

// Contacts данные страницы контактов
type Contacts struct {
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	// .env опционален, переменные окружения процесса имеют приоритет
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"  RefreshTokenTTL: %s\n"+
			"Subscription:\n"+
			"  Price: %d\n"+
			"  PeriodDays: %d\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.RefreshTokenTTL,
		c.Price,
		c.PeriodDays,
	)
}
