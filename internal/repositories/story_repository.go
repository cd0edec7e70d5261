package repositories

import (
	"time"

	"github.com/vidflow/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations.
// Activity is a read-time filter: callers pass the cutoff (now minus the
// story lifetime) and only stories created strictly after it are returned.
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveByAuthorIDs(authorIDs []uint, since time.Time) ([]models.Story, error)
	GetActiveByAuthor(userID uint, since time.Time) ([]models.Story, error)
	DeleteStory(id uint) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveByAuthorIDs returns active stories for the feed rail, newest first
// within each author.
func (r *PostgresStoryRepository) GetActiveByAuthorIDs(authorIDs []uint, since time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("user_id IN ? AND created_at > ?", authorIDs, since).
		Order("user_id, created_at DESC").
		Find(&stories).Error
	return stories, err
}

// GetActiveByAuthor returns one author's active stories oldest first, the
// order the story viewer plays them in.
func (r *PostgresStoryRepository) GetActiveByAuthor(userID uint, since time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("user_id = ? AND created_at > ?", userID, since).
		Order("created_at ASC").
		Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) DeleteStory(id uint) error {
	return r.db.Delete(&models.Story{}, id).Error
}
