package notification

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
)

type mockMailer struct {
	calls []string
	err   error
}

func (m *mockMailer) SendSellerPending(ctx context.Context, seller *domain.User) error {
	m.calls = append(m.calls, "pending:"+seller.ID)
	return m.err
}

func (m *mockMailer) SendSellerApproved(ctx context.Context, seller *domain.User) error {
	m.calls = append(m.calls, "approved:"+seller.ID)
	return m.err
}

func (m *mockMailer) SendSellerRejected(ctx context.Context, seller *domain.User, reason string) error {
	m.calls = append(m.calls, "rejected:"+seller.ID+":"+reason)
	return m.err
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestEmailNotifier_Delegates(t *testing.T) {
	// Arrange
	mailer := &mockMailer{}
	n := NewEmailNotifier(mailer, newTestLogger())
	seller := &domain.User{ID: "s1"}
	ctx := context.Background()

	// Act
	_ = n.NotifyNewSellerPending(ctx, seller)
	_ = n.NotifySellerApproved(ctx, seller)
	_ = n.NotifySellerRejected(ctx, seller, "docs ilegíveis")

	// Assert
	want := []string{"pending:s1", "approved:s1", "rejected:s1:docs ilegíveis"}
	if len(mailer.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), mailer.calls)
	}
	for i := range want {
		if mailer.calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], mailer.calls[i])
		}
	}
}

func TestEmailNotifier_ReturnsMailerError(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	n := NewEmailNotifier(mailer, newTestLogger())

	if err := n.NotifySellerApproved(context.Background(), &domain.User{ID: "s1"}); err == nil {
		t.Error("expected mailer error to surface")
	}
}

func TestLogNotifier_NeverFails(t *testing.T) {
	n := NewLogNotifier(newTestLogger())
	seller := &domain.User{ID: "s1"}
	if n.NotifyNewSellerPending(context.Background(), seller) != nil ||
		n.NotifySellerApproved(context.Background(), seller) != nil ||
		n.NotifySellerRejected(context.Background(), seller, "x") != nil {
		t.Error("expected log notifier to never fail")
	}
}
