package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/ports"
)

type FavoriteHandler struct {
	service ports.FavoriteService
	log     *zap.Logger
}

func NewFavoriteHandler(service ports.FavoriteService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		log:     log,
	}
}

func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	fav, err := h.service.Add(c.UserContext(), middleware.Actor(c), c.Params("listingId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), middleware.Actor(c), c.Params("listingId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favs, err := h.service.List(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(favs)
}

func (h *FavoriteHandler) Count(c *fiber.Ctx) error {
	n, err := h.service.Count(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"total": n})
}

func (h *FavoriteHandler) IsFavorite(c *fiber.Ctx) error {
	ok, err := h.service.IsFavorite(c.UserContext(), middleware.Actor(c), c.Params("listingId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"favorito": ok})
}
