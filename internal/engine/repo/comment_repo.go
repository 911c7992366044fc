package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
)

type ICommentRepository interface {
	CreateComment(c *model.Comment) error
	GetCommentById(commentId string) (*model.Comment, error)
	UpdateCommentContent(commentId, content string) error
	UpdateCommentStatus(commentId string, status model.AnnotationStatus) error
	ListCommentsByTask(taskId string) ([]*model.Comment, error)
}

type CommentRepo struct {
	db database.IDatabase
}

func NewCommentRepo(db database.IDatabase) ICommentRepository {
	return &CommentRepo{db: db}
}

// CreateComment creates a comment
func (r *CommentRepo) CreateComment(c *model.Comment) error {
	return r.db.DB().Create(c).Error
}

// GetCommentById gets a comment regardless of status
func (r *CommentRepo) GetCommentById(commentId string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.DB().Where("comment_id = ?", commentId).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCommentContent updates the comment body
func (r *CommentRepo) UpdateCommentContent(commentId, content string) error {
	return r.db.DB().Model(&model.Comment{}).
		Where("comment_id = ?", commentId).
		Update("content", content).Error
}

// UpdateCommentStatus updates the comment lifecycle status
func (r *CommentRepo) UpdateCommentStatus(commentId string, status model.AnnotationStatus) error {
	return r.db.DB().Model(&model.Comment{}).
		Where("comment_id = ?", commentId).
		Update("status", status).Error
}

// ListCommentsByTask lists a task's live comments oldest first
func (r *CommentRepo) ListCommentsByTask(taskId string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.DB().
		Where("task_id = ? AND status = ?", taskId, model.AnnotationStatusActive).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}
