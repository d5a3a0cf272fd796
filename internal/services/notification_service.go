package services

import (
	"context"
	"fmt"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	"github.com/allinsport/bonus-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl records notifications and sends them by mail
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	gateway          mailer.Gateway
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(notificationRepo repositories.NotificationRepository, gateway mailer.Gateway) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		gateway:          gateway,
	}
}

// NotifyCredit records and sends a notice about credited points
func (s *NotificationServiceImpl) NotifyCredit(ctx context.Context, member *models.Member, points int, notificationType string) (*models.Notification, error) {
	subject := "Deine Bonuspunkte wurden gutgeschrieben"
	content := fmt.Sprintf("Hallo %s, dir wurden %d Punkte gutgeschrieben.", member.FirstName, points)
	return s.send(ctx, member, subject, content, notificationType)
}

// NotifyVoucherIssued records and sends a notice about an issued voucher
func (s *NotificationServiceImpl) NotifyVoucherIssued(ctx context.Context, member *models.Member, voucher *models.Voucher) (*models.Notification, error) {
	subject := "Dein Gutschein ist da"
	content := fmt.Sprintf("Hallo %s, dein Gutschein %s (Code %s) ist gültig bis %s.",
		member.FirstName, voucher.Label, voucher.Code, voucher.ExpiresAt.Format("02.01.2006"))
	return s.send(ctx, member, subject, content, models.NotificationVoucherIssued)
}

// GetNotificationsByMemberID retrieves a member's notifications
func (s *NotificationServiceImpl) GetNotificationsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.Notification, error) {
	return s.notificationRepo.FindByMemberID(ctx, memberID)
}

func (s *NotificationServiceImpl) send(ctx context.Context, member *models.Member, subject, content, notificationType string) (*models.Notification, error) {
	notification := &models.Notification{
		MemberID: member.ID,
		Email:    member.Email,
		Subject:  subject,
		Content:  content,
		Type:     notificationType,
		Status:   "SENT",
	}

	if err := s.gateway.Send(ctx, member.Email, subject, content); err != nil {
		slog.Warn("Mail gateway send failed", "error", err, "memberId", member.ID, "type", notificationType)
		notification.Status = "FAILED"
	} else {
		notification.SentDate = time.Now()
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}
	return notification, nil
}
