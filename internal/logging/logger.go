package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bazaar-realm/bazaar-client/internal/config"
)

// InitLogger 根据配置初始化 JSON 结构化日志。
//
// 作为 DLL 运行时宿主进程一般没有可见的控制台，LogFilePath 才是可靠的落点；
// console 只在未配置文件或文件不可写时接收日志，同时接收 logger_fallback 提示。
// console 为 nil 时使用 os.Stderr。
func InitLogger(cfg config.Config, console io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}
	if console == nil {
		console = os.Stderr
	}

	path := LogPath(cfg)
	output, outErr := buildOutput(cfg, path, console)
	if outErr != nil {
		fmt.Fprintf(console, "logger_fallback: %v\n", outErr)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	if outErr != nil {
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   path,
		}).Warn(outErr.Error())
	}

	return logger, nil
}

// Discard 返回丢弃全部输出的 logger，供测试与未初始化的调用路径使用。
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogPath 返回实际使用的日志文件路径。相对路径以 CacheDir 为基准：
// 宿主进程的工作目录通常是游戏安装目录，不适合写入。
func LogPath(cfg config.Config) string {
	if cfg.LogFilePath == "" {
		return ""
	}
	if filepath.IsAbs(cfg.LogFilePath) || cfg.CacheDir == "" {
		return cfg.LogFilePath
	}
	return filepath.Join(cfg.CacheDir, cfg.LogFilePath)
}

// buildOutput 在交给 lumberjack 之前先打开一次目标文件。lumberjack 延迟到首次
// 写入才打开文件，届时的错误只会被 logrus 吞掉，宿主看不到任何日志。
func buildOutput(cfg config.Config, path string, console io.Writer) (io.Writer, error) {
	if path == "" {
		return console, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return console, fmt.Errorf("创建日志目录失败: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return console, fmt.Errorf("日志文件不可写: %w", err)
	}
	_ = f.Close()

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, nil
}
