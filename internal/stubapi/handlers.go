package stubapi

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

const (
	defaultListLimit = 128
	maxListLimit     = 1000
)

type handlers struct {
	store  *Store
	logger *logrus.Logger
}

func registerRoutes(app *fiber.App, h *handlers) {
	v1 := app.Group("/v1")

	v1.Get("/status", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	v1.Post("/owners", h.createOwner)
	v1.Get("/owners/:id", h.getOwner)
	v1.Patch("/owners/:id", h.updateOwner)

	v1.Post("/shops", h.createShop)
	v1.Get("/shops", h.listShops)
	v1.Get("/shops/:id", h.getShop)
	v1.Patch("/shops/:id", h.updateShop)

	v1.Post("/merchandise_lists", h.createMerchandiseList)
	v1.Get("/merchandise_lists/:id", h.getMerchandiseList)
	v1.Get("/shops/:id/merchandise_list", h.getMerchandiseListByShop)
	v1.Patch("/shops/:id/merchandise_list", h.updateMerchandiseList)

	v1.Post("/interior_ref_lists", h.createInteriorRefList)
	v1.Get("/interior_ref_lists/:id", h.getInteriorRefList)
	v1.Get("/shops/:id/interior_ref_list", h.getInteriorRefListByShop)
	v1.Patch("/shops/:id/interior_ref_list", h.updateInteriorRefList)

	v1.Post("/transactions", h.createTransaction)
	v1.Get("/transactions/:id", h.getTransaction)
}

func pathID(c fiber.Ctx) (int32, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func badID(c fiber.Ctx) error {
	return renderProblem(c, fiber.StatusBadRequest, "Bad Request", "invalid id "+strconv.Quote(c.Params("id")))
}

func notFound(c fiber.Ctx) error {
	return renderProblem(c, fiber.StatusNotFound, "Not Found", "")
}

func (h *handlers) createOwner(c fiber.Ctx) error {
	var d model.OwnerDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	if err := d.Validate(); err != nil {
		return renderProblem(c, fiber.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	}
	owner, etag := h.store.CreateOwner(apiKey(c), d)
	return respond(c, fiber.StatusCreated, etag, owner)
}

func (h *handlers) getOwner(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	owner, etag, ok := h.store.Owner(id)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, owner)
}

func (h *handlers) updateOwner(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var d model.OwnerDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	owner, etag, ok := h.store.UpdateOwner(id, d)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, owner)
}

func (h *handlers) createShop(c fiber.Ctx) error {
	var d model.ShopDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	if err := d.Validate(); err != nil {
		return renderProblem(c, fiber.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	}
	shop, etag := h.store.CreateShop(apiKey(c), d)
	return respond(c, fiber.StatusCreated, etag, shop)
}

func (h *handlers) listShops(c fiber.Ctx) error {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			return renderProblem(c, fiber.StatusBadRequest, "Bad Request", "limit must be between 1 and 1000")
		}
		limit = n
	}
	shops, etag := h.store.Shops(limit)
	return respond(c, fiber.StatusOK, etag, shops)
}

func (h *handlers) getShop(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	shop, etag, ok := h.store.Shop(id)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, shop)
}

func (h *handlers) updateShop(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var d model.ShopDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	shop, etag, ok := h.store.UpdateShop(id, d)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, shop)
}

func (h *handlers) createMerchandiseList(c fiber.Ctx) error {
	var d model.MerchandiseListDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	list, etag, err := h.store.PutMerchandiseList(apiKey(c), d, true)
	if err != nil {
		return renderStoreError(c, err)
	}
	return respond(c, fiber.StatusCreated, etag, list)
}

func (h *handlers) updateMerchandiseList(c fiber.Ctx) error {
	shopID, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var d model.MerchandiseListDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	d.ShopID = shopID
	list, etag, err := h.store.PutMerchandiseList(apiKey(c), d, false)
	if err != nil {
		return renderStoreError(c, err)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) getMerchandiseList(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	list, etag, ok := h.store.MerchandiseList(id)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) getMerchandiseListByShop(c fiber.Ctx) error {
	shopID, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	list, etag, ok := h.store.MerchandiseListByShop(shopID)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) createInteriorRefList(c fiber.Ctx) error {
	var d model.InteriorRefListDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	list, etag, err := h.store.PutInteriorRefList(apiKey(c), d, true)
	if err != nil {
		return renderStoreError(c, err)
	}
	return respond(c, fiber.StatusCreated, etag, list)
}

func (h *handlers) updateInteriorRefList(c fiber.Ctx) error {
	shopID, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var d model.InteriorRefListDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	d.ShopID = shopID
	list, etag, err := h.store.PutInteriorRefList(apiKey(c), d, false)
	if err != nil {
		return renderStoreError(c, err)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) getInteriorRefList(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	list, etag, ok := h.store.InteriorRefList(id)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) getInteriorRefListByShop(c fiber.Ctx) error {
	shopID, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	list, etag, ok := h.store.InteriorRefListByShop(shopID)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, list)
}

func (h *handlers) createTransaction(c fiber.Ctx) error {
	var d model.TransactionDraft
	if perr := decodeBody(c, &d); perr != nil {
		return perr.render(c)
	}
	if err := d.Validate(); err != nil {
		return renderProblem(c, fiber.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	}
	tx, etag, err := h.store.CreateTransaction(apiKey(c), d)
	if err != nil {
		return renderStoreError(c, err)
	}
	h.logger.WithFields(logrus.Fields{
		"action":     "stub_transaction",
		"shop_id":    tx.ShopID,
		"amount":     tx.Amount,
		"request_id": RequestID(c),
	}).Debug("stub_transaction")
	return respond(c, fiber.StatusCreated, etag, tx)
}

func (h *handlers) getTransaction(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	tx, etag, ok := h.store.Transaction(id)
	if !ok {
		return notFound(c)
	}
	return respond(c, fiber.StatusOK, etag, tx)
}
