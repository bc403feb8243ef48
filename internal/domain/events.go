package domain

import "time"

const (
	SubjectSellerStatusChanged = "seller.status.changed"
	SubjectListingChanged      = "listing.changed"
)

type SellerStatusChanged struct {
	SellerID       string        `json:"seller_id"`
	PreviousStatus *SellerStatus `json:"previous_status,omitempty"`
	NewStatus      SellerStatus  `json:"new_status"`
	Reason         string        `json:"reason,omitempty"`
	ChangedBy      *string       `json:"changed_by,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

type ListingChangeKind string

const (
	ListingCreated       ListingChangeKind = "created"
	ListingUpdated       ListingChangeKind = "updated"
	ListingDeactivated   ListingChangeKind = "deactivated"
	ListingStatusChanged ListingChangeKind = "status_changed"
	ListingImagesChanged ListingChangeKind = "images_changed"
)

type ListingChanged struct {
	ListingID  string            `json:"listing_id"`
	LotNumber  string            `json:"lot_number"`
	Kind       ListingChangeKind `json:"kind"`
	Status     ListingStatus     `json:"status"`
	Ativo      bool              `json:"ativo"`
	ChangedBy  string            `json:"changed_by,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
