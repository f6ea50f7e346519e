package stubapi

import (
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Server 在真实监听器上运行 stub 应用，供端到端测试与 cmd/stubapi 使用。
type Server struct {
	App    *fiber.App
	Store  *Store
	Faults *Faults

	listener net.Listener
	done     chan struct{}
	err      error
}

// Start 在 addr 上监听（"127.0.0.1:0" 表示随机端口）并在后台开始服务。
func Start(addr string, logger *logrus.Logger) (*Server, error) {
	store := NewStore()
	faults := &Faults{}
	app, err := NewApp(AppOptions{Logger: logger, Store: store, Faults: faults})
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{App: app, Store: store, Faults: faults, listener: ln, done: make(chan struct{})}
	go func() {
		s.err = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
		close(s.done)
	}()
	return s, nil
}

// URL 返回服务的 base URL，如 http://127.0.0.1:54321。
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Close 关闭应用并等待服务协程退出。
func (s *Server) Close() error {
	if err := s.App.Shutdown(); err != nil {
		return err
	}
	<-s.done
	return s.err
}

// Done 在服务退出后关闭。
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Err 返回服务退出的原因，仅在 Done 关闭后有意义。
func (s *Server) Err() error {
	return s.err
}
