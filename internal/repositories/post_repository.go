package repositories

import (
	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByAuthorIDs(authorIDs []uint, offset, limit int) ([]models.Post, error)
	CountPostsByAuthorIDs(authorIDs []uint) (int64, error)
	GetPostsByAuthor(userID uint) ([]models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePostCascade(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthorIDs returns posts whose author is in the given set, newest
// first with id as a stable tiebreak.
func (r *PostgresPostRepository) GetPostsByAuthorIDs(authorIDs []uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountPostsByAuthorIDs(authorIDs []uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id IN ?", authorIDs).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) GetPostsByAuthor(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePostCascade removes a post and everything owned by it (comments,
// likes, notifications) in one transaction. The backing media file is the
// caller's responsibility; its removal must never abort the transaction.
func (r *PostgresPostRepository) DeletePostCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
