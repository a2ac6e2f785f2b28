package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量覆盖：server.port -> BLOCKJACK_SERVER_PORT
const EnvPrefix = "BLOCKJACK"

const defaultPath = "config/config.yaml"

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		// 为空时战绩只存内存
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`
	Round struct {
		// 快照闲置多久过期
		TTL time.Duration `mapstructure:"ttl"`
		// 0 表示按时间取随机种子
		Seed int64 `mapstructure:"seed"`
	} `mapstructure:"round"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("database.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("round.ttl", 24*time.Hour)
	v.SetDefault("round.seed", 0)
	v.SetDefault("log.level", "info")
}

// LoadFrom 读取指定的 yaml；文件不存在时只用默认值和环境变量
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return Config{}, errors.New("jwt.secret is required")
	}
	if cfg.JWT.TTL <= 0 || cfg.Round.TTL <= 0 {
		return Config{}, errors.New("jwt.ttl and round.ttl must be positive")
	}
	return cfg, nil
}

// Load 先加载 .env，再读 BLOCKJACK_CONFIG 或 config/config.yaml，结果写入 C
func Load() error {
	_ = godotenv.Load()

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = defaultPath
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	C = cfg
	return nil
}
