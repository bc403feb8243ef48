package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
)

// Mailer is the part of the email service the notifier needs.
type Mailer interface {
	SendSellerPending(ctx context.Context, seller *domain.User) error
	SendSellerApproved(ctx context.Context, seller *domain.User) error
	SendSellerRejected(ctx context.Context, seller *domain.User, reason string) error
}

// EmailNotifier announces seller status changes by email.
type EmailNotifier struct {
	mailer Mailer
	log    *zap.Logger
}

var _ ports.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(mailer Mailer, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, log: log}
}

func (n *EmailNotifier) NotifyNewSellerPending(ctx context.Context, seller *domain.User) error {
	return n.record(seller, "seller_pending", n.mailer.SendSellerPending(ctx, seller))
}

func (n *EmailNotifier) NotifySellerApproved(ctx context.Context, seller *domain.User) error {
	return n.record(seller, "seller_approved", n.mailer.SendSellerApproved(ctx, seller))
}

func (n *EmailNotifier) NotifySellerRejected(ctx context.Context, seller *domain.User, reason string) error {
	return n.record(seller, "seller_rejected", n.mailer.SendSellerRejected(ctx, seller, reason))
}

func (n *EmailNotifier) record(seller *domain.User, kind string, err error) error {
	telemetry.NotificationsTotal.WithLabelValues(kind, telemetry.Status(err)).Inc()
	if err != nil {
		n.log.Warn("Notification failed",
			zap.String("kind", kind),
			zap.String("seller_id", seller.ID),
			zap.Error(err))
		return err
	}
	n.log.Info("Notification sent", zap.String("kind", kind), zap.String("seller_id", seller.ID))
	return nil
}

// LogNotifier only logs. It stands in when email is disabled.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyNewSellerPending(ctx context.Context, seller *domain.User) error {
	n.log.Info("Seller awaiting approval", zap.String("seller_id", seller.ID), zap.String("email", seller.Email))
	return nil
}

func (n *LogNotifier) NotifySellerApproved(ctx context.Context, seller *domain.User) error {
	n.log.Info("Seller approved", zap.String("seller_id", seller.ID))
	return nil
}

func (n *LogNotifier) NotifySellerRejected(ctx context.Context, seller *domain.User, reason string) error {
	n.log.Info("Seller rejected", zap.String("seller_id", seller.ID), zap.String("reason", reason))
	return nil
}
