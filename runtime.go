package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/client"
	"github.com/bazaar-realm/bazaar-client/internal/codec"
	"github.com/bazaar-realm/bazaar-client/internal/config"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

// clientRuntime 汇总一次 init_client 产生的共享依赖；所有导出函数都从这里取
// 缓存协调器与 http.Client，而不是各自持有全局状态。
type clientRuntime struct {
	cfg    *config.Config
	logger *logrus.Logger
	http   *http.Client
	cache  *cache.Coordinator
	codec  codec.Codec

	// calls 在每次导出调用期间持有读锁；retire 取写锁，等进行中的调用结束后
	// 才 Flush/Close 缓存，避免异步写入的 pending.Add 与 Wait 并发。
	calls sync.RWMutex
}

var (
	runtimeMu sync.Mutex
	active    *clientRuntime
)

func newRuntime(cfg *config.Config, logger *logrus.Logger) (*clientRuntime, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	c, err := codec.Lookup(cfg.WireFormat)
	if err != nil {
		return nil, err
	}
	coordinator, err := cache.NewCoordinator(cfg.CacheDir, cache.Options{
		Logger:              logger,
		MetadataMemoEntries: cfg.MetadataMemoEntries,
		Async:               cfg.AsyncCacheWrites,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化缓存目录失败: %w", err)
	}
	return &clientRuntime{
		cfg:    cfg,
		logger: logger,
		http:   transport.NewHTTPClient(cfg.RequestTimeout.DurationValue()),
		cache:  coordinator,
		codec:  c,
	}, nil
}

// retire 等待持有 rt 的调用全部返回，再落盘挂起写入并关闭协调器。
// rt 必须已经不是 active，否则新的调用会继续拿到它。
func (rt *clientRuntime) retire() {
	rt.calls.Lock()
	defer rt.calls.Unlock()
	rt.cache.Flush()
	rt.cache.Close()
}

// installRuntime 替换当前运行时。旧运行时在进行中的调用结束后退役，
// 因此 init_client 可能阻塞到这些调用返回。
func installRuntime(cfg *config.Config, logger *logrus.Logger) error {
	next, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}

	runtimeMu.Lock()
	prev := active
	active = next
	runtimeMu.Unlock()

	if prev != nil {
		prev.retire()
	}
	return nil
}

// acquireRuntime 返回已安装的运行时并为本次调用持有它，调用方必须执行 release。
// 宿主未调用 init_client 时按默认配置懒加载。读锁在 runtimeMu 内获取，
// 所以 installRuntime 换下的运行时不会再被新的调用持有。
func acquireRuntime() (*clientRuntime, func(), error) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if active == nil {
		cfg, err := config.Default()
		if err != nil {
			return nil, nil, err
		}
		rt, err := newRuntime(cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		active = rt
	}
	rt := active
	rt.calls.RLock()
	return rt, rt.calls.RUnlock, nil
}

// newClient 为一次导出调用构造 client；release 必须在调用结束时执行。
// api_url 无效时由 transport 以 NetworkError 报告，与连接失败一致。
func newClient(apiURL, apiKey *C.char) (*client.Client, func(), error) {
	rt, release, err := acquireRuntime()
	if err != nil {
		return nil, nil, err
	}
	url := goOptionalString(apiURL)
	t := transport.New(rt.http, url, goOptionalString(apiKey), rt.codec, transport.Options{
		MaxBodyBytes: rt.cfg.MaxBodyBytes,
	})
	return client.New(t, rt.cache, url, client.Options{
		Version:   rt.cfg.APIVersion,
		ListLimit: rt.cfg.ListLimit,
		Logger:    rt.logger,
	}), release, nil
}
