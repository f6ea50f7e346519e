package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvConfigPath 指向配置文件的环境变量，init_client 未传入路径时读取。
const EnvConfigPath = "BAZAAR_CLIENT_CONFIG"

// Load 读取并解析配置文件（TOML/YAML/JSON 按扩展名识别），同时注入默认值与校验逻辑。
// path 与环境变量都为空时只使用默认值与 BAZAAR_* 环境变量。
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BAZAAR")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回不读取任何文件的默认配置，供未调用 init_client 的宿主使用。
// CacheDir 无法解析为绝对路径时返回错误，与 Load 一致。
func Default() (*Config, error) {
	cfg := &Config{
		LogLevel:            "info",
		LogMaxSize:          10,
		LogMaxBackups:       3,
		APIVersion:          "v1",
		RequestTimeout:      Duration(30 * time.Second),
		WireFormat:          "msgpack",
		ListLimit:           128,
		MaxBodyBytes:        32 << 20,
		MetadataMemoEntries: 1024,
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 10)
	v.SetDefault("LogMaxBackups", 3)
	v.SetDefault("LogCompress", false)
	v.SetDefault("CacheDir", "")
	v.SetDefault("APIVersion", "v1")
	v.SetDefault("RequestTimeout", "30s")
	v.SetDefault("WireFormat", "msgpack")
	v.SetDefault("ListLimit", 128)
	v.SetDefault("MaxBodyBytes", 32<<20)
	v.SetDefault("AsyncCacheWrites", false)
	v.SetDefault("MetadataMemoEntries", 1024)
}

func applyDefaults(cfg *Config) error {
	if cfg.RequestTimeout.DurationValue() == 0 {
		cfg.RequestTimeout = Duration(30 * time.Second)
	}
	cfg.WireFormat = strings.ToLower(strings.TrimSpace(cfg.WireFormat))
	cfg.APIVersion = strings.TrimSpace(cfg.APIVersion)

	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	abs, err := filepath.Abs(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.CacheDir = abs
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "bazaar-client")
	}
	return filepath.Join(os.TempDir(), "bazaar-client")
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
