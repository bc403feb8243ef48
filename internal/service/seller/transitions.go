package seller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
)

// Approve moves a seller from PENDENTE_APROVACAO to APROVADO.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, sellerID, comment string) (*domain.User, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		comment = defaultApprovalComment
	}
	return s.adminTransition(ctx, actor, sellerID, domain.SellerEventApprove, comment, comment)
}

// Reject moves a seller from PENDENTE_APROVACAO to REJEITADO. The reason is
// stored on the seller and sent to them.
func (s *Service) Reject(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("motivo da rejeição é obrigatório")
	}
	return s.adminTransition(ctx, actor, sellerID, domain.SellerEventReject, reason, "Rejeitado: "+reason)
}

// Suspend is allowed from any state but SUSPENSO. No email is sent.
func (s *Service) Suspend(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("motivo da suspensão é obrigatório")
	}
	return s.adminTransition(ctx, actor, sellerID, domain.SellerEventSuspend, reason, "Suspenso: "+reason)
}

// Reinstate lifts a suspension back to APROVADO.
func (s *Service) Reinstate(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("motivo da reativação é obrigatório")
	}
	return s.adminTransition(ctx, actor, sellerID, domain.SellerEventReinstate, reason, "Reativado: "+reason)
}

func (s *Service) adminTransition(ctx context.Context, actor domain.Actor, sellerID string, event domain.SellerEvent, reason, historyReason string) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("apenas administradores podem alterar o status de vendedores")
	}

	ctx, span := telemetry.StartSpan(ctx, "seller."+string(event))
	defer span.End()

	s.log.Info("Seller transition requested",
		zap.String("seller_id", sellerID),
		zap.String("event", string(event)),
		zap.String("admin_id", actor.ID))

	var (
		seller     *domain.User
		transition domain.SellerTransition
	)
	actorID := actor.ID
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		seller, err = s.lockSeller(ctx, sellerID)
		if err != nil {
			return err
		}
		// The guard runs on the locked row so concurrent admins cannot
		// both pass it.
		transition, err = s.transition(ctx, seller, event, &actorID, reason, historyReason)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, seller, transition, historyReason, &actorID)
	return seller, nil
}

func (s *Service) lockSeller(ctx context.Context, sellerID string) (*domain.User, error) {
	seller, err := s.users.FindByIDForUpdate(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil || !seller.IsSeller() {
		return nil, domain.NotFound("vendedor", sellerID)
	}
	return seller, nil
}

// transition applies event to seller and appends the history row. It must
// run inside a transaction.
func (s *Service) transition(ctx context.Context, seller *domain.User, event domain.SellerEvent, actorID *string, reason, historyReason string) (domain.SellerTransition, error) {
	t, err := domain.NextSellerStatus(seller.CurrentSellerStatus(), event)
	if err != nil {
		return t, err
	}

	t.Apply(seller, actorID, reason, s.now())
	if err := s.users.Save(ctx, seller); err != nil {
		return t, fmt.Errorf("failed to save seller: %w", err)
	}

	previous := t.From
	if err := s.history.Append(ctx, &domain.StatusHistoryEntry{
		ID:             uuid.New().String(),
		SellerID:       seller.ID,
		PreviousStatus: &previous,
		NewStatus:      t.To,
		Reason:         historyReason,
		ChangedBy:      actorID,
	}); err != nil {
		return t, fmt.Errorf("failed to append status history: %w", err)
	}

	telemetry.SellerTransitionsTotal.WithLabelValues(string(t.To)).Inc()
	s.log.Info("Seller status changed",
		zap.String("seller_id", seller.ID),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)))
	return t, nil
}

// afterCommit runs the notification and publish effects. Failures are logged
// and never reach the caller.
func (s *Service) afterCommit(ctx context.Context, seller *domain.User, t domain.SellerTransition, reason string, actorID *string) {
	if s.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout())
		defer cancel()

		var err error
		switch {
		case t.Has(domain.EffectNotifyPending):
			err = s.notifier.NotifyNewSellerPending(nctx, seller)
		case t.Has(domain.EffectNotifyApproved):
			err = s.notifier.NotifySellerApproved(nctx, seller)
		case t.Has(domain.EffectNotifyRejected):
			err = s.notifier.NotifySellerRejected(nctx, seller, seller.RejectionReason)
		}
		if err != nil {
			s.log.Warn("Seller notification failed",
				zap.String("seller_id", seller.ID),
				zap.String("status", string(t.To)),
				zap.Error(err))
		}
	}

	if t.Has(domain.EffectPublishStatus) {
		s.publish(ctx, seller, t, reason, actorID)
	}
}

func (s *Service) publish(ctx context.Context, seller *domain.User, t domain.SellerTransition, reason string, actorID *string) {
	if s.events == nil {
		return
	}
	var previous *domain.SellerStatus
	if t.From != "" {
		from := t.From
		previous = &from
	}
	s.events.PublishSellerStatusChanged(ctx, domain.SellerStatusChanged{
		SellerID:       seller.ID,
		PreviousStatus: previous,
		NewStatus:      t.To,
		Reason:         reason,
		ChangedBy:      actorID,
		OccurredAt:     s.now(),
	})
}

func (s *Service) notifyTimeout() time.Duration {
	if s.cfg.NotifyTimeout <= 0 {
		return DefaultConfig().NotifyTimeout
	}
	return s.cfg.NotifyTimeout
}
