package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Dataset source. DataBaseURL wins over DataDir when set.
	DataDir          string
	DataBaseURL      string
	DataFetchTimeout time.Duration

	// Crop catalog overrides; empty means the embedded copies.
	CropsFile    string
	GDDCropsFile string

	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseFetchTimeout(sharedcfg.EnvOrDefault("DATA_FETCH_TIMEOUT", "5s"))
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:          sharedcfg.EnvOrDefault("DATA_DIR", "./data"),
		DataBaseURL:      os.Getenv("DATA_BASE_URL"),
		DataFetchTimeout: fetchTimeout,
		CropsFile:        os.Getenv("CROPS_FILE"),
		GDDCropsFile:     os.Getenv("GDD_CROPS_FILE"),

		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "gdd-plan-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "gdd-plan-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "gdd-planner"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides layers values from a config file or bound CLI flags on top
// of the environment. Only keys the viper instance has set are applied.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	setString("data_dir", &cfg.DataDir)
	setString("data_base_url", &cfg.DataBaseURL)
	setString("crops_file", &cfg.CropsFile)
	setString("gdd_crops_file", &cfg.GDDCropsFile)
	setString("kafka_source_topic", &cfg.KafkaSourceTopic)
	setString("kafka_sink_topic", &cfg.KafkaSinkTopic)
	setString("kafka_group_id", &cfg.KafkaGroupID)
	setString("http_addr", &cfg.HTTPAddr)
	setString("log_level", &cfg.LogLevel)
	setString("log_format", &cfg.LogFormat)

	if v.IsSet("kafka_brokers") {
		brokers := v.GetStringSlice("kafka_brokers")
		if len(brokers) == 1 {
			brokers = sharedcfg.ParseBrokers(brokers[0])
		}
		cfg.KafkaBrokers = brokers
	}
	if v.IsSet("data_fetch_timeout") {
		d, err := parseFetchTimeout(v.GetString("data_fetch_timeout"))
		if err != nil {
			return err
		}
		cfg.DataFetchTimeout = d
	}

	return cfg.validate()
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if c.DataDir == "" && c.DataBaseURL == "" {
		return errors.New("DATA_DIR or DATA_BASE_URL is required")
	}
	return nil
}

func parseFetchTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid DATA_FETCH_TIMEOUT %q", s)
	}
	return d, nil
}
