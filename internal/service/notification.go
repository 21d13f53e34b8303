package service

import (
	"context"
	"errors"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

var (
	ErrNotificationTitleRequired = errors.New("通知标题不能为空")
	ErrNotificationNoRecipient   = errors.New("通知接收人不能为空")
	ErrNotificationTypeInvalid   = errors.New("通知类型不合法")
)

// NotificationSendInput 发送通知入参
type NotificationSendInput struct {
	UserIDs []uint
	Title   string
	Content string
	Type    string
}

// NotificationService 站内通知服务接口
// 所有读写都以接收用户为边界，用户只能触达自己的通知
type NotificationService interface {
	// Send 管理端给指定用户批量发送通知
	Send(ctx context.Context, senderID uint, input *NotificationSendInput) (int, error)
	ListMy(ctx context.Context, userID uint, filter *repository.NotificationFilter, page *repository.Pagination) ([]*model.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, userID uint, ids []uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func validNotificationType(t string) bool {
	switch t {
	case model.NotificationTypeSystem, model.NotificationTypeTask,
		model.NotificationTypeArticle, model.NotificationTypeOther:
		return true
	}
	return false
}

func (s *notificationService) Send(ctx context.Context, senderID uint, input *NotificationSendInput) (int, error) {
	if input.Title == "" {
		return 0, ErrNotificationTitleRequired
	}
	if len(input.UserIDs) == 0 {
		return 0, ErrNotificationNoRecipient
	}
	if input.Type == "" {
		input.Type = model.NotificationTypeSystem
	}
	if !validNotificationType(input.Type) {
		return 0, ErrNotificationTypeInvalid
	}

	// 跳过不存在的接收人，剩余的批量落库
	notifications := make([]model.Notification, 0, len(input.UserIDs))
	seen := make(map[uint]struct{}, len(input.UserIDs))
	for _, userID := range input.UserIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return 0, err
		}
		notifications = append(notifications, model.Notification{
			UserID:   userID,
			Title:    input.Title,
			Content:  input.Content,
			Type:     input.Type,
			SenderID: &senderID,
		})
	}

	if len(notifications) == 0 {
		return 0, ErrNotificationNoRecipient
	}
	if err := s.notificationRepo.BatchCreate(ctx, notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}

func (s *notificationService) ListMy(ctx context.Context, userID uint, filter *repository.NotificationFilter, page *repository.Pagination) ([]*model.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, filter, page)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.notificationRepo.MarkRead(ctx, userID, ids)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.notificationRepo.Delete(ctx, userID, ids)
}
