package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/viper"

	chatservice "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Storage storage.Config
	Chat    ChatConfig
	AI      AIConfig
}

// Load 从环境变量加载配置，未设置的项使用默认值。
func Load() (*Config, error) {
	v := newViper()

	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig(v)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Log:     LogConfig{Mode: strings.TrimSpace(v.GetString("LOG_MODE"))},
		Storage: loadStorageConfig(v),
		Chat:    chat,
		AI:      ai,
	}, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("STORAGE_DRIVER", "file")
	v.SetDefault("STORAGE_PATH", "data")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "z-stylist:")

	timing := chatservice.DefaultTiming()
	v.SetDefault("CHAT_REPLY_DELAY", timing.ReplyDelay.String())
	v.SetDefault("CHAT_IMAGE_DELAY", timing.ImageDelay.String())
	v.SetDefault("CHAT_SCAN_DELAY", timing.ScanDelay.String())
	v.SetDefault("CHAT_TOKEN_INTERVAL", timing.TokenInterval.String())

	v.SetDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ARK_REGION", "cn-beijing")

	v.AutomaticEnv()
	// 模型名沿用 "Model" 这个环境变量名，需要显式绑定大小写。
	_ = v.BindEnv("ARK_MODEL", "Model", "ARK_MODEL")
	return v
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许 ":8080" 或 "127.0.0.1:8080" 形式。
		return ServerConfig{Addr: port}, nil
	}
	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}
	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig 选择 zap 的输出模式。
type LogConfig struct {
	Mode string
}

func loadStorageConfig(v *viper.Viper) storage.Config {
	return storage.Config{
		Driver: strings.TrimSpace(v.GetString("STORAGE_DRIVER")),
		Path:   strings.TrimSpace(v.GetString("STORAGE_PATH")),
		DSN:    strings.TrimSpace(v.GetString("STORAGE_DSN")),
		Redis: storage.RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Username: strings.TrimSpace(v.GetString("REDIS_USERNAME")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
	}
}

// ChatConfig 描述模拟助手的节奏。
type ChatConfig struct {
	ReplyDelay    time.Duration
	ImageDelay    time.Duration
	ScanDelay     time.Duration
	TokenInterval time.Duration
}

// Timing 转换为会话服务使用的时间配置。
func (c ChatConfig) Timing() chatservice.Timing {
	return chatservice.Timing{
		ReplyDelay:    c.ReplyDelay,
		ImageDelay:    c.ImageDelay,
		ScanDelay:     c.ScanDelay,
		TokenInterval: c.TokenInterval,
	}
}

func loadChatConfig(v *viper.Viper) (ChatConfig, error) {
	var cfg ChatConfig
	fields := []struct {
		key string
		dst *time.Duration
	}{
		{"CHAT_REPLY_DELAY", &cfg.ReplyDelay},
		{"CHAT_IMAGE_DELAY", &cfg.ImageDelay},
		{"CHAT_SCAN_DELAY", &cfg.ScanDelay},
		{"CHAT_TOKEN_INTERVAL", &cfg.TokenInterval},
	}
	for _, f := range fields {
		d, err := parseDuration(v, f.key)
		if err != nil {
			return ChatConfig{}, err
		}
		*f.dst = d
	}
	return cfg, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY and Model, or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
}

func loadAIConfig(v *viper.Viper) (AIConfig, error) {
	temperature, err := parseOptionalFloat(v, "ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloat(v, "ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalInt(v, "ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(v.GetString("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(v.GetString("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(v.GetString("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(v.GetString("ARK_MODEL")),
		BaseURL:     strings.TrimSpace(v.GetString("ARK_BASE_URL")),
		Region:      strings.TrimSpace(v.GetString("ARK_REGION")),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// parseDuration 接受 "1500ms" 这类写法，纯数字按毫秒处理。
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return d, nil
}

func parseOptionalFloat(v *viper.Viper, key string) (*float64, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt(v *viper.Viper, key string) (*int, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
