package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads optional .env files and then builds a Config from the process
// environment. Missing .env files are not an error; explicit environment
// variables always win over file contents.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from ORDERFLOW_* environment variables. Unset
// variables leave the zero value so defaults apply downstream.
func FromEnv() *Config {
	return &Config{
		PubSubSystem:       os.Getenv("ORDERFLOW_PUBSUB_SYSTEM"),
		KafkaBrokers:       splitList(os.Getenv("ORDERFLOW_KAFKA_BROKERS")),
		KafkaConsumerGroup: os.Getenv("ORDERFLOW_KAFKA_CONSUMER_GROUP"),
		RabbitMQURL:        os.Getenv("ORDERFLOW_RABBITMQ_URL"),
		NATSURL:            os.Getenv("ORDERFLOW_NATS_URL"),

		AWSRegion:          os.Getenv("ORDERFLOW_AWS_REGION"),
		AWSAccountID:       os.Getenv("ORDERFLOW_AWS_ACCOUNT_ID"),
		AWSAccessKeyID:     os.Getenv("ORDERFLOW_AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("ORDERFLOW_AWS_SECRET_ACCESS_KEY"),
		AWSEndpoint:        os.Getenv("ORDERFLOW_AWS_ENDPOINT"),

		StockAPIURL:  os.Getenv("ORDERFLOW_STOCK_API_URL"),
		StockAPIKey:  os.Getenv("ORDERFLOW_STOCK_API_KEY"),
		StockTimeout: durationEnv("ORDERFLOW_STOCK_TIMEOUT"),

		IntakeTopic:         os.Getenv("ORDERFLOW_INTAKE_TOPIC"),
		CustomerOrdersTopic: os.Getenv("ORDERFLOW_CUSTOMER_ORDERS_TOPIC"),
		RouterOrdersTopic:   os.Getenv("ORDERFLOW_ROUTER_ORDERS_TOPIC"),
		PoisonQueue:         os.Getenv("ORDERFLOW_POISON_QUEUE"),

		TechnicianProductTypes: splitList(os.Getenv("ORDERFLOW_TECHNICIAN_PRODUCT_TYPES")),

		RetryMaxAttempts:     intEnv("ORDERFLOW_RETRY_MAX_ATTEMPTS"),
		RetryInitialInterval: durationEnv("ORDERFLOW_RETRY_INITIAL_INTERVAL"),
		EnvelopeSizeLimit:    intEnv("ORDERFLOW_ENVELOPE_SIZE_LIMIT"),

		MetricsEnabled: boolEnv("ORDERFLOW_METRICS_ENABLED"),
		MetricsPort:    intEnv("ORDERFLOW_METRICS_PORT"),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func intEnv(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}

func durationEnv(key string) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}
