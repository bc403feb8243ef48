package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/ports"
)

type StatisticsHandler struct {
	service ports.StatisticsService
	log     *zap.Logger
}

func NewStatisticsHandler(service ports.StatisticsService, log *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		log:     log,
	}
}

func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	filter, err := listingFilter(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Statistics(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *StatisticsHandler) Highlights(c *fiber.Ctx) error {
	listings, err := h.service.Highlights(c.UserContext(), c.QueryInt("limite", 5))
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

func (h *StatisticsHandler) Recent(c *fiber.Ctx) error {
	listings, err := h.service.Recent(c.UserContext(), c.QueryInt("limite", 10))
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

func (h *StatisticsHandler) MostWanted(c *fiber.Ctx) error {
	listings, err := h.service.MostWanted(c.UserContext(), c.QueryInt("limite", 5))
	if err != nil {
		return err
	}
	return c.JSON(listings)
}
