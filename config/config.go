package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultGateSecret 默认访问密码，仅用于本地演示，生产环境必须修改
const DefaultGateSecret = "888888"

// Config 应用全局配置结构体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Gate   GateConfig   `mapstructure:"gate"`
	Redis  RedisConfig  `mapstructure:"redis"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DataConfig 数据源（Excel 表格）配置
type DataConfig struct {
	Path   string `mapstructure:"path"`
	Sheet  string `mapstructure:"sheet"`  // 为空时读取第一个工作表
	Schema string `mapstructure:"schema"` // auto | pricing | profile

	// 覆盖表结构默认的可搜索/可筛选列，列名须与表头完全一致
	SearchableFields []string `mapstructure:"searchable_fields"`
	FilterFields     []string `mapstructure:"filter_fields"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 表示直到手动刷新或文件变更
	Watch    bool          `mapstructure:"watch"`
}

// GateConfig 访问密码配置
type GateConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Secret        string        `mapstructure:"secret"`
	SecretHash    string        `mapstructure:"secret_hash"` // bcrypt 哈希，优先于明文 secret
	SessionKey    string        `mapstructure:"session_key"` // 为空时启动时随机生成，重启后会话失效
	MaxAttempts   int           `mapstructure:"max_attempts"`
	AttemptWindow time.Duration `mapstructure:"attempt_window"`
	Cookie        CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig Cookie 安全配置
type CookieConfig struct {
	Secure bool   `mapstructure:"secure"`
	Domain string `mapstructure:"domain"`
}

// RedisConfig Redis 配置（仅用于登录限流，Addr 为空时不启用）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// UIConfig 页面展示配置
type UIConfig struct {
	Title          string `mapstructure:"title"`
	Columns        int    `mapstructure:"columns"`
	ContactMessage string `mapstructure:"contact_message"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UsesDefaultSecret 是否仍在使用不安全的默认访问密码
func (g *GateConfig) UsesDefaultSecret() bool {
	return g.SecretHash == "" && g.Secret == DefaultGateSecret
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TUTORHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.cors.allow_origins", []string{})

	v.SetDefault("data.path", "data.xlsx")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.schema", "auto")
	v.SetDefault("data.searchable_fields", []string{})
	v.SetDefault("data.filter_fields", []string{})
	v.SetDefault("data.cache_ttl", "0s")
	v.SetDefault("data.watch", true)

	v.SetDefault("gate.enabled", true)
	v.SetDefault("gate.secret", DefaultGateSecret)
	v.SetDefault("gate.secret_hash", "")
	v.SetDefault("gate.session_key", "")
	v.SetDefault("gate.max_attempts", 5)
	v.SetDefault("gate.attempt_window", "1m")
	v.SetDefault("gate.cookie.secure", false)
	v.SetDefault("gate.cookie.domain", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ui.title", "精英家教严选")
	v.SetDefault("ui.columns", 3)
	v.SetDefault("ui.contact_message", "请联系管理员微信预约")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Data.Path == "" {
		return fmt.Errorf("配置校验失败: data.path 不能为空")
	}
	switch c.Data.Schema {
	case "auto", "pricing", "profile":
	default:
		return fmt.Errorf("配置校验失败: data.schema 只能是 auto/pricing/profile，实际为 %q", c.Data.Schema)
	}
	if c.Data.CacheTTL < 0 {
		return fmt.Errorf("配置校验失败: data.cache_ttl 不能为负数")
	}
	if c.UI.Columns < 1 {
		return fmt.Errorf("配置校验失败: ui.columns 不能小于 1")
	}
	if c.Gate.Enabled {
		if c.Gate.Secret == "" && c.Gate.SecretHash == "" {
			return fmt.Errorf("配置校验失败: 启用访问密码时 gate.secret 与 gate.secret_hash 不能同时为空")
		}
		if c.Gate.SessionKey != "" && len(c.Gate.SessionKey) < 32 {
			return fmt.Errorf("配置校验失败: gate.session_key 长度不能少于 32 字符")
		}
		if c.Gate.MaxAttempts < 1 {
			return fmt.Errorf("配置校验失败: gate.max_attempts 不能小于 1")
		}
	}
	return nil
}
