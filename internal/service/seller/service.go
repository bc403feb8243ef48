package seller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/validator"
)

const (
	reasonInitial          = "Cadastro inicial"
	reasonDocumentsDone    = "Todos os documentos obrigatórios foram enviados"
	reasonResubmission     = "Reenvio de documentos após rejeição"
	defaultApprovalComment = "Vendedor aprovado pelo administrador"
)

type Config struct {
	// StrictCNPJ rejects CNPJs with wrong check digits.
	StrictCNPJ bool
	// VerifyCNPJ consults the registry and requires situação ATIVA.
	VerifyCNPJ      bool
	MaxDocumentSize int64
	NotifyTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxDocumentSize: 10 * 1024 * 1024,
		NotifyTimeout:   10 * time.Second,
	}
}

type Service struct {
	users     ports.UserRepository
	documents ports.DocumentRepository
	history   ports.StatusHistoryRepository
	tx        ports.Transactor
	blobs     ports.BlobStore
	notifier  ports.Notifier
	events    ports.EventPublisher
	cnpj      ports.CNPJLookup
	cfg       Config
	log       *zap.Logger
	now       func() time.Time
}

type Deps struct {
	Users     ports.UserRepository
	Documents ports.DocumentRepository
	History   ports.StatusHistoryRepository
	Tx        ports.Transactor
	Blobs     ports.BlobStore
	Notifier  ports.Notifier
	Events    ports.EventPublisher
	CNPJ      ports.CNPJLookup
}

func NewService(deps Deps, cfg Config, log *zap.Logger) *Service {
	return &Service{
		users:     deps.Users,
		documents: deps.Documents,
		history:   deps.History,
		tx:        deps.Tx,
		blobs:     deps.Blobs,
		notifier:  deps.Notifier,
		events:    deps.Events,
		cnpj:      deps.CNPJ,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

var _ ports.SellerService = (*Service)(nil)

func (s *Service) Register(ctx context.Context, req ports.RegisterSellerRequest) (*domain.User, error) {
	s.log.Info("Registering seller", zap.String("cnpj", req.CNPJ))

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, domain.Validation("nome, email e senha são obrigatórios")
	}
	if strings.TrimSpace(req.RazaoSocial) == "" {
		return nil, domain.Validation("razão social é obrigatória")
	}

	corporateEmail := strings.TrimSpace(req.CorporateEmail)
	if corporateEmail == "" {
		corporateEmail = strings.TrimSpace(req.Email)
	}
	if err := validator.ValidateCorporateEmail(corporateEmail); err != nil {
		return nil, err
	}

	cnpj := validator.NormalizeCNPJ(req.CNPJ)
	if cnpj == "" {
		return nil, domain.Validation("CNPJ deve conter 14 dígitos")
	}
	if s.cfg.StrictCNPJ && !validator.ValidCNPJ(cnpj) {
		return nil, domain.Validation("CNPJ inválido: %s", req.CNPJ)
	}

	var cpf *string
	if strings.TrimSpace(req.CPF) != "" {
		digits := validator.OnlyDigits(req.CPF)
		if len(digits) != 11 {
			return nil, domain.Validation("CPF deve conter 11 dígitos")
		}
		cpf = &digits
	}

	if s.cfg.VerifyCNPJ && s.cnpj != nil {
		info, err := s.cnpj.Lookup(ctx, cnpj)
		if err != nil {
			s.log.Warn("CNPJ lookup failed", zap.String("cnpj", cnpj), zap.Error(err))
			return nil, domain.Validation("não foi possível validar o CNPJ. Verifique se o número está correto e tente novamente")
		}
		if !info.Active() {
			return nil, domain.Validation("CNPJ com situação cadastral: %s. Apenas empresas ativas podem se cadastrar", info.Situacao)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Password:          string(hash),
		Phone:             req.Phone,
		CPF:               cpf,
		Role:              domain.UserRoleSeller,
		Ativo:             true,
		CNPJ:              &cnpj,
		RazaoSocial:       strings.TrimSpace(req.RazaoSocial),
		NomeFantasia:      strings.TrimSpace(req.NomeFantasia),
		InscricaoEstadual: req.InscricaoEstadual,
		CorporateEmail:    corporateEmail,
		SellerStatus:      domain.SellerStatusPtr(domain.SellerStatusPendingDocuments),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if exists, err := s.users.ExistsByCNPJ(ctx, cnpj); err != nil {
			return err
		} else if exists {
			return domain.Conflict("já existe um vendedor cadastrado com este CNPJ")
		}
		if exists, err := s.users.ExistsByEmail(ctx, user.Email); err != nil {
			return err
		} else if exists {
			return domain.Conflict("este email já está em uso")
		}
		if cpf != nil {
			if exists, err := s.users.ExistsByCPF(ctx, *cpf); err != nil {
				return err
			} else if exists {
				return domain.Conflict("este CPF já está cadastrado")
			}
		}

		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create seller: %w", err)
		}
		return s.history.Append(ctx, &domain.StatusHistoryEntry{
			ID:        uuid.New().String(),
			SellerID:  user.ID,
			NewStatus: domain.SellerStatusPendingDocuments,
			Reason:    reasonInitial,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seller registered", zap.String("seller_id", user.ID))
	s.publish(ctx, user, domain.SellerTransition{To: domain.SellerStatusPendingDocuments}, reasonInitial, nil)
	return user, nil
}

func (s *Service) Get(ctx context.Context, sellerID string) (*domain.User, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil || !seller.IsSeller() {
		return nil, domain.NotFound("vendedor", sellerID)
	}
	return seller, nil
}

func (s *Service) ListByStatus(ctx context.Context, status *domain.SellerStatus, page domain.PageRequest) (domain.Page[domain.User], error) {
	if status != nil && !status.Valid() {
		return domain.Page[domain.User]{}, domain.Validation("status de vendedor inválido: %s", *status)
	}
	sellers, total, err := s.users.FindSellers(ctx, status, page)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(sellers, total, page), nil
}

func (s *Service) Counts(ctx context.Context) (*domain.SellerCounts, error) {
	total, err := s.users.CountSellers(ctx)
	if err != nil {
		return nil, err
	}
	counts := &domain.SellerCounts{Total: total, ByStatus: make(map[domain.SellerStatus]int64, len(domain.SellerStatuses))}
	for _, st := range domain.SellerStatuses {
		n, err := s.users.CountSellersByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		counts.ByStatus[st] = n
	}
	return counts, nil
}

func (s *Service) History(ctx context.Context, sellerID string) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.Get(ctx, sellerID); err != nil {
		return nil, err
	}
	return s.history.FindBySeller(ctx, sellerID)
}
