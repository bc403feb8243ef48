package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

type SellerHandler struct {
	service ports.SellerService
	log     *zap.Logger
}

func NewSellerHandler(service ports.SellerService, log *zap.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		log:     log,
	}
}

type RegisterSellerRequest struct {
	Name              string `json:"nome"`
	Email             string `json:"email"`
	Password          string `json:"senha"`
	Phone             string `json:"telefone"`
	CPF               string `json:"cpf"`
	CNPJ              string `json:"cnpj"`
	RazaoSocial       string `json:"razao_social"`
	NomeFantasia      string `json:"nome_fantasia"`
	InscricaoEstadual string `json:"inscricao_estadual"`
	CorporateEmail    string `json:"email_corporativo"`
}

type ReasonRequest struct {
	Reason string `json:"motivo"`
}

type DocumentStatusRequest struct {
	Status domain.DocumentStatus `json:"status"`
	Reason string                `json:"motivo"`
}

type SellerStatusResponse struct {
	Status            domain.SellerStatus `json:"status"`
	RejectionReason   string              `json:"motivo_rejeicao,omitempty"`
	DocumentsComplete bool                `json:"documentos_completos"`
}

func (h *SellerHandler) Register(c *fiber.Ctx) error {
	var req RegisterSellerRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}

	seller, err := h.service.Register(c.UserContext(), ports.RegisterSellerRequest{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		Phone:             req.Phone,
		CPF:               req.CPF,
		CNPJ:              req.CNPJ,
		RazaoSocial:       req.RazaoSocial,
		NomeFantasia:      req.NomeFantasia,
		InscricaoEstadual: req.InscricaoEstadual,
		CorporateEmail:    req.CorporateEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(seller)
}

// UploadDocument expects a multipart form with "tipo" and "arquivo".
func (h *SellerHandler) UploadDocument(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	fh, err := c.FormFile("arquivo")
	if err != nil {
		return domain.Validation("arquivo é obrigatório")
	}
	data, err := readFile(fh)
	if err != nil {
		return err
	}

	doc, err := h.service.RegisterUpload(c.UserContext(), actor.ID, ports.DocumentUpload{
		Type:     domain.DocumentType(c.FormValue("tipo")),
		Data:     data,
		Filename: fh.Filename,
		MimeType: fh.Header.Get(fiber.HeaderContentType),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *SellerHandler) MyStatus(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	seller, err := h.service.Get(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	complete, err := h.service.RequiredDocumentsComplete(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(SellerStatusResponse{
		Status:            seller.CurrentSellerStatus(),
		RejectionReason:   seller.RejectionReason,
		DocumentsComplete: complete,
	})
}

func (h *SellerHandler) MyDocuments(c *fiber.Ctx) error {
	docs, err := h.service.Documents(c.UserContext(), middleware.Actor(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

func (h *SellerHandler) MyHistory(c *fiber.Ctx) error {
	history, err := h.service.History(c.UserContext(), middleware.Actor(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(history)
}

// List serves the admin queue; ?status narrows it to one state.
func (h *SellerHandler) List(c *fiber.Ctx) error {
	var status *domain.SellerStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.SellerStatus(raw)
		if !s.Valid() {
			return domain.Validation("status inválido: %s", raw)
		}
		status = &s
	}

	page, err := h.service.ListByStatus(c.UserContext(), status, pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *SellerHandler) Pending(c *fiber.Ctx) error {
	status := domain.SellerStatusPendingApproval
	page, err := h.service.ListByStatus(c.UserContext(), &status, pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *SellerHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.service.Counts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

func (h *SellerHandler) Get(c *fiber.Ctx) error {
	seller, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(seller)
}

func (h *SellerHandler) Documents(c *fiber.Ctx) error {
	docs, err := h.service.Documents(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

func (h *SellerHandler) History(c *fiber.Ctx) error {
	history, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

type transitionFunc func(c *fiber.Ctx, actor domain.Actor, sellerID, reason string) (*domain.User, error)

func (h *SellerHandler) transition(fn transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ReasonRequest
		if len(c.Body()) > 0 {
			if err := bodyParse(c, &req); err != nil {
				return err
			}
		}

		seller, err := fn(c, middleware.Actor(c), c.Params("id"), req.Reason)
		if err != nil {
			return err
		}
		return c.JSON(seller)
	}
}

func (h *SellerHandler) Approve() fiber.Handler {
	return h.transition(func(c *fiber.Ctx, actor domain.Actor, id, reason string) (*domain.User, error) {
		return h.service.Approve(c.UserContext(), actor, id, reason)
	})
}

func (h *SellerHandler) Reject() fiber.Handler {
	return h.transition(func(c *fiber.Ctx, actor domain.Actor, id, reason string) (*domain.User, error) {
		return h.service.Reject(c.UserContext(), actor, id, reason)
	})
}

func (h *SellerHandler) Suspend() fiber.Handler {
	return h.transition(func(c *fiber.Ctx, actor domain.Actor, id, reason string) (*domain.User, error) {
		return h.service.Suspend(c.UserContext(), actor, id, reason)
	})
}

func (h *SellerHandler) Reinstate() fiber.Handler {
	return h.transition(func(c *fiber.Ctx, actor domain.Actor, id, reason string) (*domain.User, error) {
		return h.service.Reinstate(c.UserContext(), actor, id, reason)
	})
}

func (h *SellerHandler) SetDocumentStatus(c *fiber.Ctx) error {
	var req DocumentStatusRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}

	doc, err := h.service.SetDocumentStatus(c.UserContext(), middleware.Actor(c), c.Params("documentId"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}
