package repositories

import (
	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAllAsRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates the PostgreSQL-backed repository
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAllAsRead flips every unread notification in one transaction so a
// concurrent reader sees either the fully-unread or fully-read set.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Notification{}).
			Where("recipient_id = ? AND is_read = false", recipientID).
			Update("is_read", true).Error
	})
}
