package listing

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/search"
)

var (
	ufPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)
)

type Config struct {
	MaxImageSize int64
}

func DefaultConfig() Config {
	return Config{MaxImageSize: 5 * 1024 * 1024}
}

// Invalidator drops cached aggregates after a listing mutation.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Deps struct {
	Users    ports.UserRepository
	Listings ports.ListingRepository
	Images   ports.ImageRepository
	Tx       ports.Transactor
	Blobs    ports.BlobStore
	Events   ports.EventPublisher
	Stats    Invalidator
}

// Service implements ListingService
type Service struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	images   ports.ImageRepository
	tx       ports.Transactor
	blobs    ports.BlobStore
	events   ports.EventPublisher
	stats    Invalidator
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(deps Deps, cfg Config, log *zap.Logger) *Service {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = DefaultConfig().MaxImageSize
	}
	return &Service{
		users:    deps.Users,
		listings: deps.Listings,
		images:   deps.Images,
		tx:       deps.Tx,
		blobs:    deps.Blobs,
		events:   deps.Events,
		stats:    deps.Stats,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

var _ ports.ListingService = (*Service)(nil)

// Create registers a new listing owned by the actor. Sellers must be
// APROVADO; admins may always create.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in ports.ListingInput) (*domain.Listing, error) {
	if err := s.authorizeCreate(ctx, actor); err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	s.log.Info("Creating listing",
		zap.String("lot_number", *in.LotNumber),
		zap.String("actor_id", actor.ID))

	owner := actor.ID
	listing := &domain.Listing{
		ID:       uuid.New().String(),
		Status:   domain.ListingStatusAvailable,
		Ativo:    true,
		SellerID: &owner,
	}
	applyFull(listing, in)
	if in.Status == nil {
		listing.Status = domain.ListingStatusAvailable
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.listings.ExistsByLotNumber(ctx, listing.LotNumber)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("imóvel com número de leilão %s já existe", listing.LotNumber)
		}
		if err := s.listings.Create(ctx, listing); err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Listing created", zap.String("listing_id", listing.ID))
	s.changed(ctx, listing, domain.ListingCreated, actor.ID)
	return listing, nil
}

// authorizeCreate explains to a seller why they cannot list yet.
func (s *Service) authorizeCreate(ctx context.Context, actor domain.Actor) error {
	switch actor.Role {
	case domain.UserRoleAdmin:
		return nil
	case domain.UserRoleSeller:
	default:
		return domain.Forbidden("apenas vendedores aprovados e administradores podem cadastrar imóveis")
	}

	return s.requireApprovedSeller(ctx, actor.ID, "cadastrar")
}

// requireApprovedSeller explains to a seller why they cannot manage
// listings in their current status.
func (s *Service) requireApprovedSeller(ctx context.Context, sellerID, verb string) error {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil || !seller.IsSeller() {
		return domain.NotFound("vendedor", sellerID)
	}

	switch seller.CurrentSellerStatus() {
	case domain.SellerStatusApproved:
		return nil
	case domain.SellerStatusPendingDocuments:
		return domain.InvalidState("envie todos os documentos obrigatórios antes de %s imóveis", verb)
	case domain.SellerStatusPendingApproval:
		return domain.InvalidState("seu cadastro está em análise. Aguarde a aprovação para %s imóveis", verb)
	case domain.SellerStatusRejected:
		return domain.InvalidState("seu cadastro foi rejeitado. Motivo: %s", seller.RejectionReason)
	case domain.SellerStatusSuspended:
		return domain.InvalidState("sua conta está suspensa. Entre em contato com o suporte")
	default:
		return domain.InvalidState("vendedor sem status definido")
	}
}

// Update overwrites every field of an active listing with in.
func (s *Service) Update(ctx context.Context, actor domain.Actor, listingID string, in ports.ListingInput) (*domain.Listing, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, listingID, in, applyFull)
}

// PartialUpdate only touches the fields present in in.
func (s *Service) PartialUpdate(ctx context.Context, actor domain.Actor, listingID string, in ports.ListingInput) (*domain.Listing, error) {
	if err := validateFields(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, listingID, in, applyPartial)
}

func (s *Service) mutate(ctx context.Context, actor domain.Actor, listingID string, in ports.ListingInput, apply func(*domain.Listing, ports.ListingInput)) (*domain.Listing, error) {
	var listing *domain.Listing
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.lockOwned(ctx, actor, listingID)
		if err != nil {
			return err
		}
		if !listing.Ativo {
			return domain.InvalidState("não é possível editar um imóvel inativo")
		}

		previousLot := listing.LotNumber
		apply(listing, in)
		if listing.LotNumber != previousLot {
			exists, err := s.listings.ExistsByLotNumber(ctx, listing.LotNumber)
			if err != nil {
				return err
			}
			if exists {
				return domain.Conflict("imóvel com número de leilão %s já existe", listing.LotNumber)
			}
		}
		return s.listings.Save(ctx, listing)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Listing updated", zap.String("listing_id", listingID), zap.String("actor_id", actor.ID))
	s.changed(ctx, listing, domain.ListingUpdated, actor.ID)
	return listing, nil
}

// SoftDelete marks the listing inactive. Listings are never removed.
func (s *Service) SoftDelete(ctx context.Context, actor domain.Actor, listingID string) error {
	var listing *domain.Listing
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.lockOwned(ctx, actor, listingID)
		if err != nil {
			return err
		}
		if !listing.Ativo {
			return domain.InvalidState("imóvel já está inativo")
		}
		listing.Ativo = false
		return s.listings.Save(ctx, listing)
	})
	if err != nil {
		return err
	}

	s.log.Info("Listing deactivated", zap.String("listing_id", listingID), zap.String("actor_id", actor.ID))
	s.changed(ctx, listing, domain.ListingDeactivated, actor.ID)
	return nil
}

func (s *Service) ChangeStatus(ctx context.Context, actor domain.Actor, listingID string, status domain.ListingStatus) (*domain.Listing, error) {
	if !status.Valid() {
		return nil, domain.Validation("status deve ser DISPONIVEL, VENDIDO ou SUSPENSO")
	}

	var listing *domain.Listing
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.lockOwned(ctx, actor, listingID)
		if err != nil {
			return err
		}
		if !listing.Ativo {
			return domain.InvalidState("não é possível alterar o status de um imóvel inativo")
		}
		listing.Status = status
		return s.listings.Save(ctx, listing)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Listing status changed",
		zap.String("listing_id", listingID),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID))
	s.changed(ctx, listing, domain.ListingStatusChanged, actor.ID)
	return listing, nil
}

func (s *Service) Get(ctx context.Context, listingID string) (*domain.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.NotFound("imóvel", listingID)
	}
	return listing, nil
}

// Search runs a consumer query. Inactive listings are never returned.
func (s *Service) Search(ctx context.Context, filter search.Filter, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error) {
	spec := search.FromFilter(filter).ActiveOnly().Build()
	return s.page(ctx, spec, sort, page)
}

// Mine lists the actor's active listings, newest first.
func (s *Service) Mine(ctx context.Context, actor domain.Actor, status domain.ListingStatus, page domain.PageRequest) (domain.Page[domain.Listing], error) {
	b := search.NewBuilder().OwnedBy(actor.ID).ActiveOnly()
	if status != "" {
		if !status.Valid() {
			return domain.Page[domain.Listing]{}, domain.Validation("status de imóvel inválido: %s", status)
		}
		b = b.Status(status)
	}
	return s.page(ctx, b.Build(), search.ResolveSort("createdAt", "DESC"), page)
}

// AdminList is Search without the active-only restriction.
func (s *Service) AdminList(ctx context.Context, filter search.Filter, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error) {
	return s.page(ctx, search.FromFilter(filter).Build(), sort, page)
}

func (s *Service) page(ctx context.Context, spec search.Specification, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.search")
	defer span.End()

	if sort.Field == "" {
		sort = search.ResolveSort("", "")
	}
	items, total, err := s.listings.Search(ctx, spec, sort, page)
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("failed to search listings: %w", err)
	}
	return domain.NewPage(items, total, page), nil
}

// lockOwned loads the listing for update and checks the actor may change it.
// A seller must own the listing and still be approved.
func (s *Service) lockOwned(ctx context.Context, actor domain.Actor, listingID string) (*domain.Listing, error) {
	listing, err := s.listings.FindByIDForUpdate(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.NotFound("imóvel", listingID)
	}
	if actor.IsAdmin() {
		return listing, nil
	}
	if !listing.OwnedBy(actor.ID) {
		return nil, domain.Forbidden("você não tem permissão para alterar este imóvel")
	}
	if err := s.requireApprovedSeller(ctx, actor.ID, "alterar"); err != nil {
		return nil, err
	}
	return listing, nil
}

// changed runs the post-commit effects of a listing mutation.
func (s *Service) changed(ctx context.Context, listing *domain.Listing, kind domain.ListingChangeKind, actorID string) {
	telemetry.ListingMutationsTotal.WithLabelValues(string(kind)).Inc()
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	if s.events == nil {
		return
	}
	s.events.PublishListingChanged(ctx, domain.ListingChanged{
		ListingID:  listing.ID,
		LotNumber:  listing.LotNumber,
		Kind:       kind,
		Status:     listing.Status,
		Ativo:      listing.Ativo,
		ChangedBy:  actorID,
		OccurredAt: s.now(),
	})
}

func validateCreate(in ports.ListingInput) error {
	switch {
	case blank(in.LotNumber):
		return domain.Validation("número do leilão é obrigatório")
	case blank(in.Description):
		return domain.Validation("descrição é obrigatória")
	case in.AppraisalValue == nil:
		return domain.Validation("valor de avaliação é obrigatório")
	case in.AuctionDate == nil || in.AuctionDate.IsZero():
		return domain.Validation("data do leilão é obrigatória")
	case blank(in.UF):
		return domain.Validation("UF é obrigatória")
	case blank(in.Institution):
		return domain.Validation("instituição é obrigatória")
	}
	return validateFields(in)
}

// validateFields checks the constraints of every field that is present.
func validateFields(in ports.ListingInput) error {
	switch {
	case in.LotNumber != nil && blank(in.LotNumber):
		return domain.Validation("número do leilão não pode ser vazio")
	case in.Description != nil && blank(in.Description):
		return domain.Validation("descrição não pode ser vazia")
	case in.Institution != nil && blank(in.Institution):
		return domain.Validation("instituição não pode ser vazia")
	case in.AuctionDate != nil && in.AuctionDate.IsZero():
		return domain.Validation("data do leilão é obrigatória")
	}
	if in.LotNumber != nil && len(*in.LotNumber) > 100 {
		return domain.Validation("número do leilão deve ter no máximo 100 caracteres")
	}
	if in.Description != nil && len(*in.Description) > 1000 {
		return domain.Validation("descrição deve ter no máximo 1000 caracteres")
	}
	if in.AppraisalValue != nil && *in.AppraisalValue <= 0 {
		return domain.Validation("valor de avaliação deve ser positivo")
	}
	if in.UF != nil && !ufPattern.MatchString(strings.ToUpper(strings.TrimSpace(*in.UF))) {
		return domain.Validation("UF deve ter exatamente 2 letras")
	}
	if in.CEP != nil && *in.CEP != "" && !cepPattern.MatchString(*in.CEP) {
		return domain.Validation("CEP inválido. Formato esperado: 12345-678 ou 12345678")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return domain.Validation("latitude deve estar entre -90 e 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return domain.Validation("longitude deve estar entre -180 e 180")
	}
	if in.TotalArea != nil && *in.TotalArea <= 0 {
		return domain.Validation("área total deve ser positiva")
	}
	for name, v := range map[string]*int{"quartos": in.Rooms, "banheiros": in.Bathrooms, "vagas": in.ParkingSpots} {
		if v != nil && *v < 0 {
			return domain.Validation("número de %s não pode ser negativo", name)
		}
	}
	if in.Condition != nil && *in.Condition != "" {
		switch *in.Condition {
		case domain.ListingConditionNew, domain.ListingConditionUsed, domain.ListingConditionRenovated:
		default:
			return domain.Validation("condição deve ser NOVO, USADO ou REFORMADO")
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return domain.Validation("status deve ser DISPONIVEL, VENDIDO ou SUSPENSO")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
