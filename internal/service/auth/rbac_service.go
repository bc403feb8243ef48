package auth

import (
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
)

// Resources and actions checked by the HTTP layer.
const (
	ResourceSellers    = "sellers"
	ResourceDocuments  = "documents"
	ResourceListings   = "listings"
	ResourceFavorites  = "favorites"
	ResourceStatistics = "statistics"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionManage = "manage"
)

// Permission represents a single resource-action pair.
type Permission struct {
	Resource string
	Action   string
}

// RBACService maps roles to the resource-action pairs they may use. Ownership
// checks stay in the services; this only gates routes.
type RBACService struct {
	permissions map[domain.UserRole][]Permission
	log         *zap.Logger
}

func NewRBACService(log *zap.Logger) *RBACService {
	permissions := map[domain.UserRole][]Permission{
		domain.UserRoleAdmin: {
			{Resource: ResourceSellers, Action: ActionRead},
			{Resource: ResourceSellers, Action: ActionManage},
			{Resource: ResourceDocuments, Action: ActionRead},
			{Resource: ResourceDocuments, Action: ActionManage},
			{Resource: ResourceListings, Action: ActionRead},
			{Resource: ResourceListings, Action: ActionWrite},
			{Resource: ResourceListings, Action: ActionManage},
			{Resource: ResourceFavorites, Action: ActionRead},
			{Resource: ResourceFavorites, Action: ActionWrite},
			{Resource: ResourceStatistics, Action: ActionRead},
		},
		domain.UserRoleSeller: {
			{Resource: ResourceDocuments, Action: ActionWrite},
			{Resource: ResourceDocuments, Action: ActionRead},
			{Resource: ResourceListings, Action: ActionRead},
			{Resource: ResourceListings, Action: ActionWrite},
			{Resource: ResourceFavorites, Action: ActionRead},
			{Resource: ResourceFavorites, Action: ActionWrite},
			{Resource: ResourceStatistics, Action: ActionRead},
		},
		domain.UserRoleBuyer: {
			{Resource: ResourceListings, Action: ActionRead},
			{Resource: ResourceFavorites, Action: ActionRead},
			{Resource: ResourceFavorites, Action: ActionWrite},
			{Resource: ResourceStatistics, Action: ActionRead},
		},
	}

	log.Info("RBAC service initialized", zap.Int("roles", len(permissions)))
	return &RBACService{permissions: permissions, log: log}
}

// Allowed reports whether role may perform action on resource.
func (s *RBACService) Allowed(role domain.UserRole, resource, action string) bool {
	perms, ok := s.permissions[role]
	if !ok {
		s.log.Warn("Unknown role attempted access",
			zap.String("role", string(role)),
			zap.String("resource", resource))
		return false
	}
	for _, p := range perms {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	s.log.Debug("Permission denied",
		zap.String("role", string(role)),
		zap.String("resource", resource),
		zap.String("action", action))
	return false
}

// Permissions returns a copy of the role's permissions, nil for unknown roles.
func (s *RBACService) Permissions(role domain.UserRole) []Permission {
	perms, ok := s.permissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
