package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/service/auth"
)

type Handlers struct {
	Auth       *AuthHandler
	Sellers    *SellerHandler
	Listings   *ListingHandler
	Statistics *StatisticsHandler
	Favorites  *FavoriteHandler
	Banks      *BankHandler
}

// RegisterRoutes mounts the REST API under router. Static segments are
// registered before their :id siblings.
func RegisterRoutes(router fiber.Router, h Handlers, authService ports.AuthService, authz middleware.Authorizer) {
	authed := middleware.AuthRequired(authService)
	can := func(resource, action string) fiber.Handler {
		return middleware.RequirePermission(authz, resource, action)
	}

	// Auth
	router.Post("/auth/login", h.Auth.Login)
	router.Post("/auth/logout", authed, h.Auth.Logout)
	router.Get("/auth/me", authed, h.Auth.Me)

	// Seller self-service
	sellers := router.Group("/vendedores")
	sellers.Post("/registrar", h.Sellers.Register)
	sellers.Post("/documentos", authed, middleware.RequireRole(domain.UserRoleSeller), can(auth.ResourceDocuments, auth.ActionWrite), h.Sellers.UploadDocument)
	sellers.Get("/meu-status", authed, middleware.RequireRole(domain.UserRoleSeller), h.Sellers.MyStatus)
	sellers.Get("/meus-documentos", authed, middleware.RequireRole(domain.UserRoleSeller), can(auth.ResourceDocuments, auth.ActionRead), h.Sellers.MyDocuments)
	sellers.Get("/meu-historico", authed, middleware.RequireRole(domain.UserRoleSeller), h.Sellers.MyHistory)

	// Seller administration
	admin := router.Group("/admin", authed, middleware.RequireRole(domain.UserRoleAdmin))
	admin.Get("/vendedores", can(auth.ResourceSellers, auth.ActionRead), h.Sellers.List)
	admin.Get("/vendedores/pendentes", can(auth.ResourceSellers, auth.ActionRead), h.Sellers.Pending)
	admin.Get("/vendedores/contagem", can(auth.ResourceSellers, auth.ActionRead), h.Sellers.Counts)
	admin.Patch("/vendedores/documentos/:documentId/status", can(auth.ResourceDocuments, auth.ActionManage), h.Sellers.SetDocumentStatus)
	admin.Get("/vendedores/:id", can(auth.ResourceSellers, auth.ActionRead), h.Sellers.Get)
	admin.Get("/vendedores/:id/documentos", can(auth.ResourceDocuments, auth.ActionRead), h.Sellers.Documents)
	admin.Get("/vendedores/:id/historico", can(auth.ResourceSellers, auth.ActionRead), h.Sellers.History)
	admin.Post("/vendedores/:id/aprovar", can(auth.ResourceSellers, auth.ActionManage), h.Sellers.Approve())
	admin.Post("/vendedores/:id/rejeitar", can(auth.ResourceSellers, auth.ActionManage), h.Sellers.Reject())
	admin.Post("/vendedores/:id/suspender", can(auth.ResourceSellers, auth.ActionManage), h.Sellers.Suspend())
	admin.Post("/vendedores/:id/reativar", can(auth.ResourceSellers, auth.ActionManage), h.Sellers.Reinstate())
	admin.Get("/imoveis", can(auth.ResourceListings, auth.ActionManage), h.Listings.AdminList)

	// Listings
	listings := router.Group("/imoveis")
	listings.Get("/", h.Listings.Search)
	listings.Get("/estatisticas", h.Statistics.Summary)
	listings.Get("/destaques", h.Statistics.Highlights)
	listings.Get("/recentes", h.Statistics.Recent)
	listings.Get("/mais-procurados", h.Statistics.MostWanted)
	listings.Get("/meus", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.Mine)
	listings.Put("/imagens/:imageId", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.UpdateImage)
	listings.Patch("/imagens/:imageId/principal", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.SetPrincipalImage)
	listings.Delete("/imagens/:imageId", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.RemoveImage)
	listings.Post("/", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.Create)
	listings.Get("/:id", h.Listings.Get)
	listings.Put("/:id", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.Update)
	listings.Patch("/:id", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.PartialUpdate)
	listings.Delete("/:id", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.Delete)
	listings.Patch("/:id/status", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.ChangeStatus)
	listings.Get("/:id/imagens", h.Listings.Images)
	listings.Post("/:id/imagens", authed, can(auth.ResourceListings, auth.ActionWrite), h.Listings.AddImages)

	// Favorites
	favorites := router.Group("/favoritos", authed)
	favorites.Get("/", can(auth.ResourceFavorites, auth.ActionRead), h.Favorites.List)
	favorites.Get("/count", can(auth.ResourceFavorites, auth.ActionRead), h.Favorites.Count)
	favorites.Get("/:listingId", can(auth.ResourceFavorites, auth.ActionRead), h.Favorites.IsFavorite)
	favorites.Post("/:listingId", can(auth.ResourceFavorites, auth.ActionWrite), h.Favorites.Add)
	favorites.Delete("/:listingId", can(auth.ResourceFavorites, auth.ActionWrite), h.Favorites.Remove)

	router.Get("/bancos", h.Banks.List)
}
