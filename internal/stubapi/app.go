package stubapi

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AppOptions 控制 stub 应用的依赖。
type AppOptions struct {
	Logger *logrus.Logger
	Store  *Store
	// Faults 为 nil 时不注入故障。
	Faults *Faults
}

const (
	contextKeyRequestID = "_bazaar_request_id"
	contextKeyAPIKey    = "_bazaar_api_key"
)

// NewApp 构建带请求 ID、鉴权与故障注入中间件的 Fiber 应用。
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	app.Get("/-/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	registerRoutes(app, &handlers{store: opts.Store, logger: opts.Logger})
	return app, nil
}

// requestContextMiddleware 生成请求 ID、记录请求日志、执行故障注入，
// 并对 /v1 下除 status 外的接口要求 Api-Key。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		path := string(c.Request().URI().Path())
		fields := logrus.Fields{
			"action":     "stub_request",
			"method":     c.Method(),
			"path":       path,
			"request_id": reqID,
		}

		if isDiagnosticsPath(path) {
			return c.Next()
		}

		if opts.Faults != nil {
			if f, ok := opts.Faults.take(); ok {
				fields["injected_status"] = f.Status
				opts.Logger.WithFields(fields).Info("stub_fault_injected")
				return renderProblem(c, f.Status, f.Title, f.Detail)
			}
		}

		apiKey := strings.TrimSpace(c.Get("Api-Key"))
		if apiKey == "" && path != "/v1/status" {
			opts.Logger.WithFields(fields).Warn("stub_unauthorized")
			return renderProblem(c, fiber.StatusUnauthorized, "Unauthorized", "Api-Key header required")
		}
		c.Locals(contextKeyAPIKey, apiKey)

		err := c.Next()
		fields["status"] = c.Response().StatusCode()
		opts.Logger.WithFields(fields).Debug("stub_request")
		return err
	}
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func apiKey(c fiber.Ctx) string {
	if value, ok := c.Locals(contextKeyAPIKey).(string); ok {
		return value
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}

// Fault 描述一次注入的失败响应。
type Fault struct {
	Status int
	Title  string
	Detail string
}

// Faults 是一个先进先出的故障队列，每个请求最多消费一个。
type Faults struct {
	mu    sync.Mutex
	queue []Fault
}

// FailNext 让接下来的 n 个请求返回 f。
func (q *Faults) FailNext(n int, f Fault) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := 0; i < n; i++ {
		q.queue = append(q.queue, f)
	}
}

// Reset 清空尚未消费的故障。
func (q *Faults) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = nil
}

func (q *Faults) take() (Fault, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return Fault{}, false
	}
	f := q.queue[0]
	q.queue = q.queue[1:]
	return f, true
}
