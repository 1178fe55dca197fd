package internal

import (
	"blog-bus/infrastructure/storage"
	"fmt"
	"strings"
	"time"
)

// BusConfig configures the dispatcher.
type BusConfig struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Port            int           `env:"PORT,default=4005"`
	Subscribers     string        `env:"SUBSCRIBERS,required=true"`
	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT,default=3s"`
	ReportBuffer    int           `env:"REPORT_BUFFER_SIZE,default=256"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
}

// QueryConfig configures the materialized view service.
type QueryConfig struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Port            int           `env:"PORT,default=4002"`
	BufferSize      int           `env:"BUFFER_SIZE,default=1024"`
	ParkingCapacity int           `env:"PARKING_CAPACITY,default=1000"`
	ParkingTTL      time.Duration `env:"PARKING_TTL,default=30s"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL,default=1s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	StoreDriver     string        `env:"STORE_DRIVER,default=memory"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH"`
	RedisURL        string        `env:"REDIS_URL"`
	RedisNamespace  string        `env:"REDIS_NAMESPACE"`
}

// ModerationConfig configures the moderation transformer.
type ModerationConfig struct {
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	Port             int           `env:"PORT,default=4003"`
	BusURL           string        `env:"BUS_URL,required=true"`
	BufferSize       int           `env:"BUFFER_SIZE,default=1024"`
	CharReplacement  string        `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH,default=5000"`
	ExtraWords       string        `env:"MODERATION_EXTRA_WORDS"`
	PublishTimeout   time.Duration `env:"PUBLISH_TIMEOUT,default=3s"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=5s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
}

// ProducerConfig configures the posts and comments services.
type ProducerConfig struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Port            int           `env:"PORT,required=true"`
	BusURL          string        `env:"BUS_URL,required=true"`
	BufferSize      int           `env:"BUFFER_SIZE,default=1024"`
	PublishTimeout  time.Duration `env:"PUBLISH_TIMEOUT,default=3s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	StoreDriver     string        `env:"STORE_DRIVER,default=memory"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH"`
	RedisURL        string        `env:"REDIS_URL"`
	RedisNamespace  string        `env:"REDIS_NAMESPACE"`
}

func (c QueryConfig) StoreOptions() storage.Options {
	return storage.Options{
		Driver:         storage.Driver(c.StoreDriver),
		BadgerFilepath: c.BadgerFilepath,
		RedisURL:       c.RedisURL,
		RedisNamespace: c.RedisNamespace,
	}
}

func (c ProducerConfig) StoreOptions() storage.Options {
	return storage.Options{
		Driver:         storage.Driver(c.StoreDriver),
		BadgerFilepath: c.BadgerFilepath,
		RedisURL:       c.RedisURL,
		RedisNamespace: c.RedisNamespace,
	}
}

func Address(port int) string {
	return fmt.Sprintf("0.0.0.0:%d", port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitList splits a comma separated variable, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
