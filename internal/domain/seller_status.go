package domain

import (
	"time"
)

type SellerStatus string

const (
	SellerStatusPendingDocuments SellerStatus = "PENDENTE_DOCUMENTOS"
	SellerStatusPendingApproval  SellerStatus = "PENDENTE_APROVACAO"
	SellerStatusApproved         SellerStatus = "APROVADO"
	SellerStatusRejected         SellerStatus = "REJEITADO"
	SellerStatusSuspended        SellerStatus = "SUSPENSO"
)

var SellerStatuses = []SellerStatus{
	SellerStatusPendingDocuments,
	SellerStatusPendingApproval,
	SellerStatusApproved,
	SellerStatusRejected,
	SellerStatusSuspended,
}

func (s SellerStatus) Valid() bool {
	for _, v := range SellerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func SellerStatusPtr(s SellerStatus) *SellerStatus { return &s }

type SellerEvent string

const (
	SellerEventDocumentsComplete SellerEvent = "DOCUMENTS_COMPLETE"
	SellerEventApprove           SellerEvent = "APPROVE"
	SellerEventReject            SellerEvent = "REJECT"
	SellerEventSuspend           SellerEvent = "SUSPEND"
	SellerEventReinstate         SellerEvent = "REINSTATE"
	SellerEventResubmit          SellerEvent = "RESUBMIT"
)

// SellerEffect is a side effect the caller must carry out after a transition.
type SellerEffect string

const (
	EffectStampApproval  SellerEffect = "stamp_approval"
	EffectClearApproval  SellerEffect = "clear_approval"
	EffectStoreReason    SellerEffect = "store_reason"
	EffectClearReason    SellerEffect = "clear_reason"
	EffectNotifyPending  SellerEffect = "notify_pending"
	EffectNotifyApproved SellerEffect = "notify_approved"
	EffectNotifyRejected SellerEffect = "notify_rejected"
	EffectPublishStatus  SellerEffect = "publish_status"
)

type SellerTransition struct {
	From    SellerStatus
	To      SellerStatus
	Event   SellerEvent
	Effects []SellerEffect
}

func (t SellerTransition) Has(effect SellerEffect) bool {
	for _, e := range t.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

// NextSellerStatus is the seller lifecycle table. It never mutates anything;
// it either returns the transition to apply or an InvalidState error.
func NextSellerStatus(current SellerStatus, event SellerEvent) (SellerTransition, error) {
	t := SellerTransition{From: current, Event: event}

	switch event {
	case SellerEventDocumentsComplete:
		if current != SellerStatusPendingDocuments {
			return t, InvalidState("vendedor não está aguardando documentos (status atual: %s)", current)
		}
		t.To = SellerStatusPendingApproval
		t.Effects = []SellerEffect{EffectNotifyPending, EffectPublishStatus}

	case SellerEventApprove:
		if current == SellerStatusApproved {
			return t, InvalidState("vendedor já está aprovado")
		}
		if current != SellerStatusPendingApproval {
			return t, InvalidState("vendedor não está pendente de aprovação (status atual: %s)", current)
		}
		t.To = SellerStatusApproved
		t.Effects = []SellerEffect{EffectClearReason, EffectStampApproval, EffectNotifyApproved, EffectPublishStatus}

	case SellerEventReject:
		if current != SellerStatusPendingApproval {
			return t, InvalidState("vendedor não está pendente de aprovação (status atual: %s)", current)
		}
		t.To = SellerStatusRejected
		t.Effects = []SellerEffect{EffectClearApproval, EffectStoreReason, EffectNotifyRejected, EffectPublishStatus}

	case SellerEventSuspend:
		if current == SellerStatusSuspended {
			return t, InvalidState("vendedor já está suspenso")
		}
		t.To = SellerStatusSuspended
		t.Effects = []SellerEffect{EffectStoreReason, EffectPublishStatus}

	case SellerEventReinstate:
		if current != SellerStatusSuspended {
			return t, InvalidState("apenas vendedores suspensos podem ser reativados (status atual: %s)", current)
		}
		t.To = SellerStatusApproved
		t.Effects = []SellerEffect{EffectClearReason, EffectStampApproval, EffectPublishStatus}

	case SellerEventResubmit:
		if current != SellerStatusRejected {
			return t, InvalidState("reenvio de documentos só é permitido para vendedores rejeitados (status atual: %s)", current)
		}
		t.To = SellerStatusPendingDocuments
		t.Effects = []SellerEffect{EffectPublishStatus}

	default:
		return t, InvalidState("evento desconhecido: %s", event)
	}

	return t, nil
}

// Apply writes the data effects of t onto the seller. Notification and
// publish effects are left to the caller.
func (t SellerTransition) Apply(u *User, actorID *string, reason string, at time.Time) {
	u.SellerStatus = SellerStatusPtr(t.To)
	for _, e := range t.Effects {
		switch e {
		case EffectStampApproval:
			u.ApprovedBy = actorID
			stamp := at
			u.ApprovedAt = &stamp
		case EffectClearApproval:
			u.ApprovedBy = nil
			u.ApprovedAt = nil
		case EffectStoreReason:
			u.RejectionReason = reason
		case EffectClearReason:
			u.RejectionReason = ""
		}
	}
}

// StatusHistoryEntry is one append-only row of a seller's status ledger.
// ChangedBy is nil for system transitions.
type StatusHistoryEntry struct {
	ID             string        `json:"id" gorm:"primaryKey;type:uuid"`
	SellerID       string        `json:"seller_id" gorm:"type:uuid;index;not null"`
	PreviousStatus *SellerStatus `json:"status_anterior,omitempty"`
	NewStatus      SellerStatus  `json:"status_novo" gorm:"not null"`
	Reason         string        `json:"motivo"`
	ChangedBy      *string       `json:"alterado_por,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (StatusHistoryEntry) TableName() string { return "historico_status_vendedor" }
