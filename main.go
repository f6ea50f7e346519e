// bazaar-client 以 c-shared 库的形式嵌入宿主进程：
//
//	go build -buildmode=c-shared -o bazaar_client.dll .
//
// 每个导出函数都同步阻塞调用线程，返回以 tag 开头的 FFIResult* 信封；
// 信封中的指针归宿主所有，需通过对应的 free_* 函数释放。
package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/bazaar-realm/bazaar-client/internal/config"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/version"
)

var stdErr io.Writer = os.Stderr

func main() {}

// init_client 加载配置并初始化日志与缓存；config_path 为 NULL 或空串时读取
// BAZAAR_CLIENT_CONFIG，再退回默认值。可重复调用，后一次覆盖前一次。
//
//export init_client
func init_client(config_path *C.char) C.bool {
	path := goOptionalString(config_path)

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return C.bool(false)
	}
	logger, err := logging.InitLogger(*cfg, stdErr)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return C.bool(false)
	}
	if err := installRuntime(cfg, logger); err != nil {
		logger.WithFields(logging.BaseFields("init_client", path)).
			WithError(err).Error("init_client_failed")
		return C.bool(false)
	}

	fields := logging.BaseFields("init_client", path)
	fields["version"] = version.Full()
	fields["cache_dir"] = cfg.CacheDir
	fields["log_file"] = logging.LogPath(*cfg)
	fields["wire_format"] = cfg.WireFormat
	fields["async_cache_writes"] = cfg.AsyncCacheWrites
	logger.WithFields(fields).Info("init_client_ok")
	return C.bool(true)
}

// status_check 不需要 api key，也不经过缓存。
//
//export status_check
func status_check(api_url *C.char) C.FFIResultBool {
	c, release, err := newClient(api_url, nil)
	if err != nil {
		return errBool(err)
	}
	defer release()
	if err := c.Status(context.Background()); err != nil {
		return errBool(err)
	}
	return okBool(true)
}

//export generate_api_key
func generate_api_key() *C.char {
	return newCString(uuid.NewString())
}

//export client_version
func client_version() *C.char {
	return newCString(version.Full())
}
