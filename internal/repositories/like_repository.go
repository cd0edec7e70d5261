package repositories

import (
	"fmt"

	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// ErrLikeNotFound is returned when deleting a like that does not exist.
var ErrLikeNotFound = fmt.Errorf("like not found")

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID, userID uint) error
	HasUserLikedPost(postID, userID uint) (bool, error)
	GetLikesCountByPostID(postID uint) (int64, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *PostgresLikeRepository) DeleteLike(postID, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikedPostIDs returns which of the given posts the user has liked.
func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var likes []models.Like
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.PostID] = true
	}
	return result, nil
}
