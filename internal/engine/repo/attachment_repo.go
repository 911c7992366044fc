package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
)

type IAttachmentRepository interface {
	CreateAttachment(a *model.Attachment) error
	GetAttachmentById(attachmentId string) (*model.Attachment, error)
	UpdateAttachmentStatus(attachmentId string, status model.AnnotationStatus) error
	ListAttachmentsByTask(taskId string) ([]*model.Attachment, error)
	ListAllAttachments(page, pageSize int) ([]*model.Attachment, int64, error)
}

type AttachmentRepo struct {
	db database.IDatabase
}

func NewAttachmentRepo(db database.IDatabase) IAttachmentRepository {
	return &AttachmentRepo{db: db}
}

// CreateAttachment creates an attachment record
func (r *AttachmentRepo) CreateAttachment(a *model.Attachment) error {
	return r.db.DB().Create(a).Error
}

// GetAttachmentById gets an attachment regardless of status
func (r *AttachmentRepo) GetAttachmentById(attachmentId string) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.DB().Where("attachment_id = ?", attachmentId).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAttachmentStatus updates the attachment lifecycle status
func (r *AttachmentRepo) UpdateAttachmentStatus(attachmentId string, status model.AnnotationStatus) error {
	return r.db.DB().Model(&model.Attachment{}).
		Where("attachment_id = ?", attachmentId).
		Update("status", status).Error
}

// ListAttachmentsByTask lists a task's live attachments oldest first
func (r *AttachmentRepo) ListAttachmentsByTask(taskId string) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := r.db.DB().
		Where("task_id = ? AND status = ?", taskId, model.AnnotationStatusActive).
		Order("id ASC").
		Find(&attachments).Error
	return attachments, err
}

// ListAllAttachments lists every attachment record, deleted included
func (r *AttachmentRepo) ListAllAttachments(page, pageSize int) ([]*model.Attachment, int64, error) {
	var attachments []*model.Attachment
	var total int64

	db := r.db.DB().Model(&model.Attachment{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&attachments).Error
	return attachments, total, err
}
