package stubapi

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

var (
	errNotFound    = errors.New("record not found")
	errShopMissing = errors.New("shop not found")
	errConflict    = errors.New("record already exists for shop")
)

// problem 是 RFC 7807 风格的错误正文，detail 缺省时省略。
type problem struct {
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
	Status int     `json:"status"`
}

func renderProblem(c fiber.Ctx, status int, title string, detail string) error {
	p := problem{Title: title, Status: status}
	if detail != "" {
		p.Detail = &detail
	}
	return c.Status(status).JSON(p, "application/problem+json")
}

func renderStoreError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errShopMissing):
		return renderProblem(c, fiber.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, errConflict):
		return renderProblem(c, fiber.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, errNotFound):
		return renderProblem(c, fiber.StatusNotFound, "Not Found", err.Error())
	default:
		return renderProblem(c, fiber.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
