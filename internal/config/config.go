package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type AccessConfig struct {
	Env        string `yaml:"env" env-default:"local"`
	LogConfig  `yaml:"log_config"`
	AccessDB   `yaml:"access_db"`
	HTTPServer `yaml:"http_server"`
	Telegram   `yaml:"telegram"`
	Payments   `yaml:"payments"`
	Orders     `yaml:"orders"`
	Kafka      `yaml:"kafka"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
}

type AccessDB struct {
	Dsn string `yaml:"dsn" env:"ACCESS_DB_DSN" env-default:"access.db"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type Telegram struct {
	BotToken         string  `yaml:"bot_token" env:"BOT_TOKEN"`
	TargetChatID     int64   `yaml:"target_chat_id" env:"TARGET_CHAT_ID"`
	AdminIDs         []int64 `yaml:"admin_ids" env:"ADMIN_IDS"`
	InviteTTLMinutes int     `yaml:"invite_ttl_minutes" env-default:"60"`
	Timezone         string  `yaml:"timezone" env-default:"Europe/Moscow"`
}

type Payments struct {
	CryptobotToken  string `yaml:"cryptobot_token" env:"CRYPTOBOT_TOKEN"`
	CactuspayAPIKey string `yaml:"cactuspay_api_key" env:"CACTUSPAY_API_KEY"`
	WebhookSecret   string `yaml:"webhook_secret" env:"WEBHOOK_SECRET"`
}

type Orders struct {
	TTLMinutes int `yaml:"ttl_minutes" env-default:"10"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env-default:"access-events"`
}

func MustLoad() *AccessConfig {

	// Processing env config variable and file
	configPath := os.Getenv("ACCESS_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ACCESS_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg AccessConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
