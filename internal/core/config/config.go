package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

func (a App) IsProduction() bool { return strings.EqualFold(a.Env, "production") }

type Log struct {
	Level string
	JSON  bool
	// File 非空时额外写入滚动日志文件
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret   string
	Issuer   string
	TTLHours int
}

type Cookie struct {
	Name string
}

type CORS struct {
	Origins []string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// StatsTTLSec 管理端统计的缓存时间
	StatsTTLSec int `mapstructure:"statsttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Stripe struct {
	SecretKey string
	Currency  string
}

type Limits struct {
	RPS            float64
	Burst          int
	IPRPS          float64 // 单 IP
	IPBurst        int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout int // 秒
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Cookie Cookie
	CORS   CORS
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Stripe Stripe
	Limits Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vobon-server")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "vobon-server")
	v.SetDefault("jwt.ttlhours", 14*24)

	v.SetDefault("cookie.name", "token")
	v.SetDefault("cors.origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:vobon.db?_foreign_keys=on")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.statsttlsec", 30)

	v.SetDefault("stripe.secretkey", "")
	v.SetDefault("stripe.currency", "usd")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.iprps", 20)
	v.SetDefault("limits.ipburst", 40)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeout", 10)
}

// Read 读取 YAML + APP_ 前缀环境变量；配置文件不存在时仅用默认值和环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate API 服务启动前的必填项检查；运维命令不需要签发令牌，只调用 Read
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (APP_JWT_SECRET)")
	}
	if c.JWT.TTLHours <= 0 {
		return errors.New("jwt.ttlhours must be positive")
	}
	return nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
