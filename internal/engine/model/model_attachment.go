package model

type Attachment struct {
	BaseModel
	AttachmentId string           `gorm:"column:attachment_id" json:"attachmentId"`
	TaskId       string           `gorm:"column:task_id" json:"taskId"`
	UploaderId   string           `gorm:"column:uploader_id" json:"uploaderId"`
	FileName     string           `gorm:"column:file_name" json:"fileName"`
	StorageKey   string           `gorm:"column:storage_key" json:"storageKey"`
	Size         int64            `gorm:"column:size" json:"size"` // bytes
	ContentType  string           `gorm:"column:content_type" json:"contentType"`
	Status       AnnotationStatus `gorm:"column:status" json:"status"`
}

func (Attachment) TableName() string {
	return "t_attachment"
}

type AddAttachmentReq struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	Size        int64  `json:"size" validate:"gte=0"`
	ContentType string `json:"contentType"`
}

type AttachmentResp struct {
	AttachmentId string           `json:"attachmentId"`
	TaskId       string           `json:"taskId"`
	UploaderId   string           `json:"uploaderId"`
	FileName     string           `json:"fileName"`
	StorageKey   string           `json:"storageKey"`
	Size         int64            `json:"size"`
	ContentType  string           `json:"contentType"`
	Status       AnnotationStatus `json:"status"`
	CreatedAt    string           `json:"createdAt"`
}

func ToAttachmentResp(a *Attachment) *AttachmentResp {
	if a == nil {
		return nil
	}
	return &AttachmentResp{
		AttachmentId: a.AttachmentId,
		TaskId:       a.TaskId,
		UploaderId:   a.UploaderId,
		FileName:     a.FileName,
		StorageKey:   a.StorageKey,
		Size:         a.Size,
		ContentType:  a.ContentType,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt.Format(timeLayout),
	}
}
