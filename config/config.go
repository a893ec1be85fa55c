package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/joripage/exchange-core/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/exchange-core/pkg/infra/redis"
)

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type FixConfig struct {
	Enable       bool   `yaml:"enable"`
	SettingsFile string `yaml:"settings_file"`
}

type KafkaConfig struct {
	Enable      bool     `yaml:"enable"`
	Brokers     []string `yaml:"brokers"`
	TradesTopic string   `yaml:"trades_topic"`
}

type MarketdataConfig struct {
	Enable bool `yaml:"enable"`
}

type ArchiveConfig struct {
	Enable        bool `yaml:"enable"`
	BatchSize     int  `yaml:"batch_size"`
	FlushDelayMs  int  `yaml:"flush_delay_ms"`
	QueueCapacity int  `yaml:"queue_capacity"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	HTTP        *HTTPConfig                      `yaml:"http"`
	Fix         *FixConfig                       `yaml:"fix"`
	ArchiveDB   *postgres_wrapper.PostgresConfig `yaml:"archive_db"`
	Archive     *ArchiveConfig                   `yaml:"archive"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Marketdata  *MarketdataConfig                `yaml:"marketdata"`
	Kafka       *KafkaConfig                     `yaml:"kafka"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
