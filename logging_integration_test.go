//go:build cgotest

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitClientLoggingFallbackToStderr(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root 不受目录权限限制")
	}
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.Chmod(blocked, 0o000); err != nil {
		t.Fatalf("设置目录权限失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(blocked, 0o755) })

	logPath := filepath.Join(blocked, "sub", "bazaar-client.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "info"
LogFilePath = "%s"
CacheDir = "%s"
`, logPath, filepath.Join(dir, "cache")))

	errBuf := useStdErrBuffer(t)
	t.Cleanup(resetRuntime)
	if !initClientAt(configPath) {
		t.Fatalf("日志 fallback 不应导致 init_client 失败")
	}
	if !strings.Contains(errBuf.String(), "logger_fallback") {
		t.Fatalf("stderr 应提示 logger_fallback，实际: %s", errBuf.String())
	}
}

func TestInitClientLogsToStderrWhenFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "info"
LogFilePath = "%s"
CacheDir = "%s"
`, dir, filepath.Join(dir, "cache")))

	errBuf := useStdErrBuffer(t)
	t.Cleanup(resetRuntime)
	if !initClientAt(configPath) {
		t.Fatalf("日志 fallback 不应导致 init_client 失败")
	}
	out := errBuf.String()
	if !strings.Contains(out, "logger_fallback") {
		t.Fatalf("stderr 应提示 logger_fallback，实际: %s", out)
	}
	if !strings.Contains(out, `"init_client_ok"`) {
		t.Fatalf("fallback 后日志应写入 stderr: %s", out)
	}
}

func TestInitClientWritesRotatingLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "bazaar-client.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "debug"
LogFilePath = "%s"
CacheDir = "%s"
`, logPath, filepath.Join(dir, "cache")))

	t.Cleanup(resetRuntime)
	if !initClientAt(configPath) {
		t.Fatalf("init_client 应成功")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("预期创建日志文件: %v", err)
	}
	if !strings.Contains(string(data), `"init_client_ok"`) {
		t.Fatalf("日志应包含 init_client_ok 事件: %s", data)
	}
}
