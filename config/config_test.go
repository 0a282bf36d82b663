package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际 %d", cfg.Server.Port)
	}
	if cfg.Data.Path != "data.xlsx" {
		t.Errorf("期望默认数据文件 data.xlsx，实际 %s", cfg.Data.Path)
	}
	if cfg.Data.Schema != "auto" {
		t.Errorf("期望默认 schema=auto，实际 %s", cfg.Data.Schema)
	}
	if cfg.UI.Columns != 3 {
		t.Errorf("期望默认 3 列，实际 %d", cfg.UI.Columns)
	}
	if cfg.Gate.AttemptWindow != time.Minute {
		t.Errorf("期望 attempt_window=1m，实际 %s", cfg.Gate.AttemptWindow)
	}
	if !cfg.Gate.UsesDefaultSecret() {
		t.Error("默认配置应识别为使用默认访问密码")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("配置文件中的 log.level 未生效，实际 %s", cfg.Log.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TUTORHUB_GATE_SECRET", "s3cret-from-env")
	t.Setenv("TUTORHUB_UI_COLUMNS", "4")

	cfg, err := Load(writeConfig(t, "gate:\n  secret: from-file\n"))
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Gate.Secret != "s3cret-from-env" {
		t.Errorf("环境变量应覆盖配置文件，实际 %s", cfg.Gate.Secret)
	}
	if cfg.UI.Columns != 4 {
		t.Errorf("期望 ui.columns=4，实际 %d", cfg.UI.Columns)
	}
	if cfg.Gate.UsesDefaultSecret() {
		t.Error("自定义密码不应被识别为默认密码")
	}
}

func TestLoad_CookieEnvOverride(t *testing.T) {
	t.Setenv("TUTORHUB_GATE_COOKIE_DOMAIN", "example.com")
	t.Setenv("TUTORHUB_GATE_COOKIE_SECURE", "true")

	// 配置文件中完全不写 cookie 段，只靠环境变量
	cfg, err := Load(writeConfig(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Gate.Cookie.Domain != "example.com" {
		t.Errorf("期望 cookie.domain=example.com，实际 %q", cfg.Gate.Cookie.Domain)
	}
	if !cfg.Gate.Cookie.Secure {
		t.Error("期望 cookie.secure=true")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Data:   DataConfig{Path: "data.xlsx", Schema: "auto"},
			Gate:   GateConfig{Enabled: true, Secret: "888888", MaxAttempts: 5},
			UI:     UIConfig{Columns: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"未知 schema", func(c *Config) { c.Data.Schema = "resume" }, true},
		{"列数为 0", func(c *Config) { c.UI.Columns = 0 }, true},
		{"启用门禁但无密码", func(c *Config) { c.Gate.Secret = "" }, true},
		{"仅配置哈希", func(c *Config) { c.Gate.Secret = ""; c.Gate.SecretHash = "$2a$10$abc" }, false},
		{"会话密钥过短", func(c *Config) { c.Gate.SessionKey = "short" }, true},
		{"关闭门禁时忽略密码", func(c *Config) { c.Gate.Enabled = false; c.Gate.Secret = "" }, false},
		{"负数缓存时间", func(c *Config) { c.Data.CacheTTL = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
