package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 描述宿主进程内客户端的全部运行参数，由 init_client 加载一次。
type Config struct {
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// CacheDir 是磁盘缓存根目录，其下按 <origin>/<version>/ 分层。
	CacheDir   string `mapstructure:"CacheDir"`
	APIVersion string `mapstructure:"APIVersion"`

	RequestTimeout Duration `mapstructure:"RequestTimeout"`
	WireFormat     string   `mapstructure:"WireFormat"`
	ListLimit      int      `mapstructure:"ListLimit"`
	MaxBodyBytes   int64    `mapstructure:"MaxBodyBytes"`

	// AsyncCacheWrites 为 true 时缓存写入脱离调用线程，紧随其后的读取可能看到旧值。
	AsyncCacheWrites    bool  `mapstructure:"AsyncCacheWrites"`
	MetadataMemoEntries int64 `mapstructure:"MetadataMemoEntries"`
}
