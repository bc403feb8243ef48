package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/ports"
)

type BankHandler struct {
	directory ports.BankDirectory
	log       *zap.Logger
}

func NewBankHandler(directory ports.BankDirectory, log *zap.Logger) *BankHandler {
	return &BankHandler{
		directory: directory,
		log:       log,
	}
}

func (h *BankHandler) List(c *fiber.Ctx) error {
	banks, err := h.directory.ListBanks(c.UserContext())
	if err != nil {
		h.log.Warn("Bank directory unavailable", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "lista de bancos indisponível")
	}
	return c.JSON(banks)
}
