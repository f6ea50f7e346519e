// Command stubapi serves an in-memory bazaar API for developing and testing
// hosts against the client library without a real backend.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/config"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/stubapi"
	"github.com/bazaar-realm/bazaar-client/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	listenAddr  string
	configPath  string
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据 CLI 选项启动 stub 服务并阻塞到收到退出信号，返回退出码。
func run(opts cliOptions) int {
	if opts.showVersion {
		fmt.Fprintln(stdOut, version.Full())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(*cfg, stdOut)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	srv, err := stubapi.Start(opts.listenAddr, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "stub 服务启动失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("listen", opts.configPath)
	fields["url"] = srv.URL()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("stub 服务启动")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.WithFields(logrus.Fields{"action": "shutdown", "signal": sig.String()}).Info("stub 服务退出")
		if err := srv.Close(); err != nil {
			fmt.Fprintf(stdErr, "stub 服务关闭失败: %v\n", err)
			return 1
		}
	case <-srv.Done():
		if err := srv.Err(); err != nil {
			fmt.Fprintf(stdErr, "stub 服务异常退出: %v\n", err)
			return 1
		}
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数；配置路径为空时由 config.Load 读取 BAZAAR_CLIENT_CONFIG。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("stubapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	fs.StringVar(&opts.listenAddr, "listen", "127.0.0.1:8080", "监听地址")
	fs.StringVar(&opts.configPath, "config", "", "日志配置文件路径（可被 BAZAAR_CLIENT_CONFIG 覆盖）")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	return opts, nil
}
