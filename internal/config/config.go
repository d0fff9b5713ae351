// Package config отвечает за загрузку и управление конфигурацией приложения.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Глобальная переменная конфигурации, хранит все настройки из файла.
var Conf Config

// Config — конфигурация всего приложения, соответствует структуре config.yaml.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	AI            AIConfig            `mapstructure:"ai"`
}

// ServerConfig хранит настройки HTTP-сервера.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig хранит настройки всех подключений к базам данных.
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig хранит настройки подключения к MySQL.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig хранит настройки подключения к Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig хранит настройки JWT.
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig хранит настройки логирования.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig хранит настройки Kafka.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig хранит настройки Elasticsearch.
type ElasticsearchConfig struct {
	Addresses       string `mapstructure:"addresses"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	VerseIndex      string `mapstructure:"verse_index"`
	CommentaryIndex string `mapstructure:"commentary_index"`
}

// MinIOConfig хранит настройки объектного хранилища MinIO.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// AIConfig хранит значения по умолчанию для генеративного провайдера.
// Действующие ключ и модель читаются из AppConfig при каждом обращении;
// эти значения применяются, пока администратор не задал собственные.
type AIConfig struct {
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	TTSModel     string `mapstructure:"tts_model"`
	DefaultVoice string `mapstructure:"default_voice"`
}

// Init инициализирует загрузку конфигурации: читает YAML по указанному пути
// и разбирает его в переменную Conf.
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("не удалось прочитать файл конфигурации: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("не удалось разобрать конфигурацию в структуру: %w", err))
	}
}
