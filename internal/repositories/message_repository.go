package repositories

import (
	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct-message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetPeerIDs(userID uint) ([]uint, error)
	GetLastMessageBetween(userID, peerID uint) (*models.Message, error)
	GetMessagesBetween(userID, peerID uint) ([]models.Message, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetPeerIDs returns the distinct users the given user has exchanged at least
// one message with, in either direction.
func (r *PostgresMessageRepository) GetPeerIDs(userID uint) ([]uint, error) {
	var sentTo []uint
	if err := r.db.Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Distinct().Pluck("receiver_id", &sentTo).Error; err != nil {
		return nil, err
	}

	var receivedFrom []uint
	if err := r.db.Model(&models.Message{}).
		Where("receiver_id = ?", userID).
		Distinct().Pluck("sender_id", &receivedFrom).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(sentTo)+len(receivedFrom))
	peers := make([]uint, 0, len(sentTo)+len(receivedFrom))
	for _, id := range append(sentTo, receivedFrom...) {
		if !seen[id] {
			seen[id] = true
			peers = append(peers, id)
		}
	}
	return peers, nil
}

// GetLastMessageBetween returns the most recent message exchanged between the
// pair, in either direction.
func (r *PostgresMessageRepository) GetLastMessageBetween(userID, peerID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, peerID, peerID, userID,
	).Order("created_at DESC, id DESC").First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesBetween returns the full thread between the pair, oldest first.
func (r *PostgresMessageRepository) GetMessagesBetween(userID, peerID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, peerID, peerID, userID,
	).Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}
