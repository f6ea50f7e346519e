//go:build cgo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bazaar-realm/bazaar-client/internal/config"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
)

// useStdErrBuffer 在测试期间把 stdErr 换成内存缓冲区。
func useStdErrBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := stdErr
	stdErr = buf
	t.Cleanup(func() {
		stdErr = prev
	})
	return buf
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

// installTestRuntime 以临时缓存目录安装运行时，测试结束后恢复为未初始化状态。
func installTestRuntime(t *testing.T, mutate func(cfg *config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("默认配置失败: %v", err)
	}
	cfg.CacheDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	if err := installRuntime(cfg, logging.Discard()); err != nil {
		t.Fatalf("安装运行时失败: %v", err)
	}
	t.Cleanup(resetRuntime)
	return cfg
}

func resetRuntime() {
	runtimeMu.Lock()
	prev := active
	active = nil
	runtimeMu.Unlock()
	if prev != nil {
		prev.retire()
	}
}

func activeConfig(t *testing.T) *config.Config {
	t.Helper()
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if active == nil {
		t.Fatal("运行时尚未安装")
	}
	return active.cfg
}
