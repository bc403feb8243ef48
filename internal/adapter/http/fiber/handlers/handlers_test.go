package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/search"
	"github.com/seu-repo/arremateai/internal/service/auth"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, email, password string) (string, error) {
	if password != "segredo" {
		return "", domain.Unauthorized("credenciais inválidas")
	}
	return "seller", nil
}

func (stubAuth) ValidateToken(ctx context.Context, token string) (*domain.Actor, error) {
	switch token {
	case "admin":
		return &domain.Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, nil
	case "seller":
		return &domain.Actor{ID: "seller-1", Role: domain.UserRoleSeller}, nil
	case "buyer":
		return &domain.Actor{ID: "buyer-1", Role: domain.UserRoleBuyer}, nil
	}
	return nil, domain.Unauthorized("token inválido")
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

func (stubAuth) HashPassword(password string) (string, error) { return password, nil }

// Stubs embed the port so only the methods under test need a body.
type stubSellers struct {
	ports.SellerService
	registered ports.RegisterSellerRequest
	upload     ports.DocumentUpload
	actor      domain.Actor
	reason     string
}

func (s *stubSellers) Register(ctx context.Context, req ports.RegisterSellerRequest) (*domain.User, error) {
	s.registered = req
	status := domain.SellerStatusPendingDocuments
	return &domain.User{ID: "seller-1", Email: req.Email, Role: domain.UserRoleSeller, SellerStatus: &status}, nil
}

func (s *stubSellers) RegisterUpload(ctx context.Context, sellerID string, upload ports.DocumentUpload) (*domain.SellerDocument, error) {
	s.upload = upload
	return &domain.SellerDocument{ID: "doc-1", SellerID: sellerID, Type: upload.Type}, nil
}

func (s *stubSellers) Approve(ctx context.Context, actor domain.Actor, sellerID, comment string) (*domain.User, error) {
	s.actor = actor
	s.reason = comment
	status := domain.SellerStatusApproved
	return &domain.User{ID: sellerID, SellerStatus: &status}, nil
}

func (s *stubSellers) Reject(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error) {
	return nil, domain.Validation("motivo da rejeição é obrigatório")
}

type stubListings struct {
	ports.ListingService
	filter search.Filter
	sort   search.Sort
	page   domain.PageRequest
}

func (s *stubListings) Search(ctx context.Context, filter search.Filter, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error) {
	s.filter, s.sort, s.page = filter, sort, page
	return domain.NewPage([]domain.Listing{{ID: "l-1"}}, 1, page), nil
}

func (s *stubListings) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return nil, domain.NotFound("Imóvel", id)
}

func (s *stubListings) Create(ctx context.Context, actor domain.Actor, in ports.ListingInput) (*domain.Listing, error) {
	return &domain.Listing{ID: "l-2", LotNumber: *in.LotNumber, SellerID: &actor.ID}, nil
}

type stubStatistics struct {
	ports.StatisticsService
	limit int
}

func (s *stubStatistics) Highlights(ctx context.Context, limit int) ([]domain.Listing, error) {
	s.limit = limit
	return []domain.Listing{}, nil
}

type stubFavorites struct {
	ports.FavoriteService
}

func (stubFavorites) Count(ctx context.Context, actor domain.Actor) (int64, error) { return 3, nil }

type stubBanks struct{ err error }

func (s stubBanks) ListBanks(ctx context.Context) ([]ports.Bank, error) {
	code := 1
	return []ports.Bank{{ISPB: "00000000", Name: "BCO DO BRASIL S.A.", Code: &code}}, s.err
}

type fixture struct {
	app        *fiber.App
	sellers    *stubSellers
	listings   *stubListings
	statistics *stubStatistics
}

func newFixture(banks stubBanks) *fixture {
	log := newTestLogger()
	f := &fixture{
		sellers:    &stubSellers{},
		listings:   &stubListings{},
		statistics: &stubStatistics{},
	}
	f.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	RegisterRoutes(f.app.Group("/api/v1"), Handlers{
		Auth:       NewAuthHandler(stubAuth{}, log),
		Sellers:    NewSellerHandler(f.sellers, log),
		Listings:   NewListingHandler(f.listings, log),
		Statistics: NewStatisticsHandler(f.statistics, log),
		Favorites:  NewFavoriteHandler(stubFavorites{}, log),
		Banks:      NewBankHandler(banks, log),
	}, stubAuth{}, auth.NewRBACService(log))
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func (f *fixture) json(t *testing.T, method, path, token, body string) (int, []byte) {
	return f.do(t, method, path, token, strings.NewReader(body), fiber.MIMEApplicationJSON)
}

func TestLogin(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.json(t, "POST", "/api/v1/auth/login", "", `{"email":"v@empresa.com.br","password":"segredo"}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(body, &resp)
	if resp["access_token"] != "seller" || resp["role"] != string(domain.UserRoleSeller) {
		t.Errorf("unexpected login response: %v", resp)
	}

	code, _ = f.json(t, "POST", "/api/v1/auth/login", "", `{"email":"v@empresa.com.br","password":"errada"}`)
	if code != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", code)
	}
}

func TestRegisterSeller(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.json(t, "POST", "/api/v1/vendedores/registrar", "",
		`{"nome":"Leilões SA","email":"contato@leiloes.com.br","senha":"123456","cnpj":"11.222.333/0001-81"}`)

	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	if f.sellers.registered.CNPJ != "11.222.333/0001-81" || f.sellers.registered.Name != "Leilões SA" {
		t.Errorf("request not mapped: %+v", f.sellers.registered)
	}
}

func TestUploadDocument(t *testing.T) {
	f := newFixture(stubBanks{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("tipo", string(domain.DocumentTypeCNPJ))
	part, _ := w.CreateFormFile("arquivo", "cnpj.pdf")
	_, _ = part.Write([]byte("%PDF-1.4"))
	_ = w.Close()

	code, body := f.do(t, "POST", "/api/v1/vendedores/documentos", "seller", &buf, w.FormDataContentType())

	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	if f.sellers.upload.Type != domain.DocumentTypeCNPJ || string(f.sellers.upload.Data) != "%PDF-1.4" {
		t.Errorf("upload not mapped: %+v", f.sellers.upload)
	}
	if f.sellers.upload.Filename != "cnpj.pdf" {
		t.Errorf("expected filename cnpj.pdf, got %q", f.sellers.upload.Filename)
	}
}

func TestUploadDocument_BuyerForbidden(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.do(t, "POST", "/api/v1/vendedores/documentos", "buyer", nil, "")

	if code != fiber.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(stubBanks{})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", fiber.StatusUnauthorized},
		{"seller", "seller", fiber.StatusForbidden},
		{"buyer", "buyer", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := f.json(t, "POST", "/api/v1/admin/vendedores/s-1/aprovar", tt.token, `{}`)
			if code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, code)
			}
		})
	}
}

func TestApproveSeller(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.json(t, "POST", "/api/v1/admin/vendedores/s-1/aprovar", "admin", `{"motivo":"Documentos conferidos"}`)

	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	if f.sellers.actor.ID != "admin-1" || f.sellers.reason != "Documentos conferidos" {
		t.Errorf("actor or reason not forwarded: %+v %q", f.sellers.actor, f.sellers.reason)
	}
}

func TestRejectSeller_ValidationIs400(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.do(t, "POST", "/api/v1/admin/vendedores/s-1/rejeitar", "admin", nil, "")

	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	var resp middleware.ErrorResponse
	_ = json.Unmarshal(body, &resp)
	if resp.Error != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %q", resp.Error)
	}
}

func TestSearchListings_ParsesQuery(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.do(t, "GET",
		"/api/v1/imoveis?uf=SP&cidade=campinas&valorMin=100000&quartosMin=2&busca=caixa&sort=valorAvaliacao&direction=desc&page=1&size=5",
		"", nil, "")

	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	got := f.listings.filter
	if got.UF != "SP" || got.City != "campinas" || got.Text != "caixa" {
		t.Errorf("string filters not mapped: %+v", got)
	}
	if got.MinValue == nil || *got.MinValue != 100000 || got.MaxValue != nil {
		t.Errorf("value range not mapped: %v %v", got.MinValue, got.MaxValue)
	}
	if got.MinRooms == nil || *got.MinRooms != 2 {
		t.Errorf("rooms not mapped: %v", got.MinRooms)
	}
	if f.listings.sort.Field != "valorAvaliacao" || !f.listings.sort.Desc {
		t.Errorf("sort not resolved: %+v", f.listings.sort)
	}
	if f.listings.page.Page != 1 || f.listings.page.Size != 5 {
		t.Errorf("page not mapped: %+v", f.listings.page)
	}

	var page domain.Page[domain.Listing]
	_ = json.Unmarshal(body, &page)
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("unexpected page body: %+v", page)
	}
}

func TestSearchListings_UnknownSortFallsBack(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.do(t, "GET", "/api/v1/imoveis?sort=senha", "", nil, "")

	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if f.listings.sort.Field != search.DefaultSortField {
		t.Errorf("expected fallback to %s, got %s", search.DefaultSortField, f.listings.sort.Field)
	}
}

func TestSearchListings_BadNumberIs400(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.do(t, "GET", "/api/v1/imoveis?valorMin=muito", "", nil, "")

	if code != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestGetListing_NotFound(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.do(t, "GET", "/api/v1/imoveis/missing", "", nil, "")

	if code != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestStaticListingRoutesWinOverID(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.do(t, "GET", "/api/v1/imoveis/destaques?limite=3", "", nil, "")

	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if f.statistics.limit != 3 {
		t.Errorf("expected limit 3, got %d", f.statistics.limit)
	}
}

func TestCreateListing(t *testing.T) {
	f := newFixture(stubBanks{})

	code, _ := f.json(t, "POST", "/api/v1/imoveis", "buyer", `{"numero_leilao":"L-1"}`)
	if code != fiber.StatusForbidden {
		t.Errorf("buyer: expected 403, got %d", code)
	}

	code, body := f.json(t, "POST", "/api/v1/imoveis", "seller", `{"numero_leilao":"L-1","data_leilao":"2026-12-01T10:00:00Z"}`)
	if code != fiber.StatusCreated {
		t.Fatalf("seller: expected 201, got %d: %s", code, body)
	}
	var listing domain.Listing
	_ = json.Unmarshal(body, &listing)
	if listing.LotNumber != "L-1" || listing.SellerID == nil || *listing.SellerID != "seller-1" {
		t.Errorf("unexpected listing: %+v", listing)
	}
}

func TestFavoriteCount(t *testing.T) {
	f := newFixture(stubBanks{})

	code, body := f.do(t, "GET", "/api/v1/favoritos/count", "buyer", nil, "")

	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(string(body), `"total":3`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestBanks(t *testing.T) {
	code, body := newFixture(stubBanks{}).do(t, "GET", "/api/v1/bancos", "", nil, "")
	if code != fiber.StatusOK || !strings.Contains(string(body), "BCO DO BRASIL") {
		t.Errorf("expected bank list, got %d: %s", code, body)
	}

	code, _ = newFixture(stubBanks{err: io.ErrUnexpectedEOF}).do(t, "GET", "/api/v1/bancos", "", nil, "")
	if code != fiber.StatusBadGateway {
		t.Errorf("expected 502 when upstream fails, got %d", code)
	}
}
