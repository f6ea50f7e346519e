package version

import "fmt"

// Version/Commit 可在构建时通过 -ldflags 注入，默认使用开发占位符。
var (
	Version = "0.4.0"
	Commit  = "dev"
)

// Full 返回写入日志与 client_version 的完整版本信息。
func Full() string {
	return fmt.Sprintf("bazaar-client %s (%s)", Version, Commit)
}

// UserAgent 返回上游请求使用的 User-Agent。
func UserAgent() string {
	return "bazaar-client/" + Version
}
