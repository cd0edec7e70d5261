package repositories

import (
	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentsByPostID(postID uint) ([]models.Comment, error)
	GetCommentsByPostIDs(postIDs []uint) ([]models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) GetCommentsByPostIDs(postIDs []uint) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.Where("post_id IN ?", postIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}
