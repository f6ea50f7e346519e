package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/codec"
)

const (
	maxListLimit = 1000
)

// Validate 针对语义级别做进一步校验，防止非法配置进入运行时。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return newFieldError("LogLevel", "无法识别的日志级别")
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}
	if c.CacheDir == "" {
		return newFieldError("CacheDir", "不能为空")
	}
	if err := validateSegment(c.APIVersion); err != nil {
		return newFieldError("APIVersion", err.Error())
	}
	if c.RequestTimeout.DurationValue() <= 0 {
		return newFieldError("RequestTimeout", "必须大于 0")
	}
	if _, err := codec.Lookup(c.WireFormat); err != nil {
		return newFieldError("WireFormat", "仅支持 "+strings.Join(codec.Names(), "|"))
	}
	if c.ListLimit <= 0 || c.ListLimit > maxListLimit {
		return newFieldError("ListLimit", "必须在 1-1000")
	}
	if c.MaxBodyBytes <= 0 {
		return newFieldError("MaxBodyBytes", "必须大于 0")
	}
	if c.MetadataMemoEntries < 0 {
		return newFieldError("MetadataMemoEntries", "不能为负数")
	}
	return nil
}

// validateSegment 确认值可以安全地作为单级目录名与 URL 路径段。
func validateSegment(value string) error {
	if value == "" {
		return errors.New("不能为空")
	}
	if value == "." || value == ".." {
		return errors.New("不能是相对路径")
	}
	if strings.ContainsAny(value, `/\ `) {
		return errors.New("不允许包含分隔符或空格")
	}
	return nil
}
