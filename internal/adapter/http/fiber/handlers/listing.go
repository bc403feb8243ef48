package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

type ListingHandler struct {
	service ports.ListingService
	log     *zap.Logger
}

func NewListingHandler(service ports.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

// ListingRequest mirrors the listing JSON; absent fields stay nil.
type ListingRequest struct {
	LotNumber        *string                  `json:"numero_leilao"`
	Description      *string                  `json:"descricao"`
	AppraisalValue   *float64                 `json:"valor_avaliacao"`
	AuctionDate      *time.Time               `json:"data_leilao"`
	UF               *string                  `json:"uf"`
	City             *string                  `json:"cidade"`
	Neighborhood     *string                  `json:"bairro"`
	Address          *string                  `json:"endereco"`
	CEP              *string                  `json:"cep"`
	Latitude         *float64                 `json:"latitude"`
	Longitude        *float64                 `json:"longitude"`
	Rooms            *int                     `json:"quartos"`
	Bathrooms        *int                     `json:"banheiros"`
	ParkingSpots     *int                     `json:"vagas"`
	TotalArea        *float64                 `json:"area_total"`
	PropertyType     *string                  `json:"tipo_imovel"`
	Institution      *string                  `json:"instituicao"`
	EditalLink       *string                  `json:"link_edital"`
	Condition        *domain.ListingCondition `json:"condicao"`
	AcceptsFinancing *bool                    `json:"aceita_financiamento"`
	Observations     *string                  `json:"observacoes"`
	Status           *domain.ListingStatus    `json:"status"`
}

func (r ListingRequest) input() ports.ListingInput {
	return ports.ListingInput{
		LotNumber:        r.LotNumber,
		Description:      r.Description,
		AppraisalValue:   r.AppraisalValue,
		AuctionDate:      r.AuctionDate,
		UF:               r.UF,
		City:             r.City,
		Neighborhood:     r.Neighborhood,
		Address:          r.Address,
		CEP:              r.CEP,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Rooms:            r.Rooms,
		Bathrooms:        r.Bathrooms,
		ParkingSpots:     r.ParkingSpots,
		TotalArea:        r.TotalArea,
		PropertyType:     r.PropertyType,
		Institution:      r.Institution,
		EditalLink:       r.EditalLink,
		Condition:        r.Condition,
		AcceptsFinancing: r.AcceptsFinancing,
		Observations:     r.Observations,
		Status:           r.Status,
	}
}

type ListingStatusRequest struct {
	Status domain.ListingStatus `json:"status"`
}

type ImageUpdateRequest struct {
	Caption string `json:"legenda"`
	Order   int    `json:"ordem"`
}

func (h *ListingHandler) Search(c *fiber.Ctx) error {
	filter, err := listingFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.Search(c.UserContext(), filter, sortRequest(c), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ListingHandler) AdminList(c *fiber.Ctx) error {
	filter, err := listingFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.AdminList(c.UserContext(), filter, sortRequest(c), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	listing, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	status := domain.ListingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return domain.Validation("status inválido: %s", status)
	}
	page, err := h.service.Mine(c.UserContext(), middleware.Actor(c), status, pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var req ListingRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	listing, err := h.service.Create(c.UserContext(), middleware.Actor(c), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	var req ListingRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	listing, err := h.service.Update(c.UserContext(), middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

func (h *ListingHandler) PartialUpdate(c *fiber.Ctx) error {
	var req ListingRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	listing, err := h.service.PartialUpdate(c.UserContext(), middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.SoftDelete(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ListingHandler) ChangeStatus(c *fiber.Ctx) error {
	var req ListingStatusRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	listing, err := h.service.ChangeStatus(c.UserContext(), middleware.Actor(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Images(c *fiber.Ctx) error {
	images, err := h.service.Images(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(images)
}

// AddImages takes every file under the "arquivos" form key as one batch.
func (h *ListingHandler) AddImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.Validation("formulário multipart inválido")
	}
	files := form.File["arquivos"]
	if len(files) == 0 {
		return domain.Validation("nenhuma imagem enviada")
	}

	uploads := make([]ports.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return err
		}
		uploads = append(uploads, ports.ImageUpload{
			Data:     data,
			Filename: fh.Filename,
			MimeType: fh.Header.Get(fiber.HeaderContentType),
		})
	}

	images, err := h.service.AddImages(c.UserContext(), middleware.Actor(c), c.Params("id"), uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(images)
}

func (h *ListingHandler) UpdateImage(c *fiber.Ctx) error {
	var req ImageUpdateRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	image, err := h.service.UpdateImage(c.UserContext(), middleware.Actor(c), c.Params("imageId"), req.Caption, req.Order)
	if err != nil {
		return err
	}
	return c.JSON(image)
}

func (h *ListingHandler) SetPrincipalImage(c *fiber.Ctx) error {
	image, err := h.service.SetPrincipalImage(c.UserContext(), middleware.Actor(c), c.Params("imageId"))
	if err != nil {
		return err
	}
	return c.JSON(image)
}

func (h *ListingHandler) RemoveImage(c *fiber.Ctx) error {
	if err := h.service.RemoveImage(c.UserContext(), middleware.Actor(c), c.Params("imageId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
