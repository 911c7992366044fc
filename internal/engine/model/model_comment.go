package model

// AnnotationStatus is the lifecycle status shared by comments and
// attachments: live or soft-deleted, nothing in between.
type AnnotationStatus string

const (
	AnnotationStatusActive  AnnotationStatus = "ACTIVE"
	AnnotationStatusDeleted AnnotationStatus = "DELETED"
)

type Comment struct {
	BaseModel
	CommentId string           `gorm:"column:comment_id" json:"commentId"`
	TaskId    string           `gorm:"column:task_id" json:"taskId"`
	AuthorId  string           `gorm:"column:author_id" json:"authorId"`
	Content   string           `gorm:"column:content;type:text" json:"content"`
	Status    AnnotationStatus `gorm:"column:status" json:"status"`
}

func (Comment) TableName() string {
	return "t_comment"
}

type AddCommentReq struct {
	Content string `json:"content" validate:"required,max=4096"`
}

type UpdateCommentReq struct {
	Content string `json:"content" validate:"required,max=4096"`
}

type CommentResp struct {
	CommentId string           `json:"commentId"`
	TaskId    string           `json:"taskId"`
	AuthorId  string           `json:"authorId"`
	Content   string           `json:"content"`
	Status    AnnotationStatus `json:"status"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

func ToCommentResp(c *Comment) *CommentResp {
	if c == nil {
		return nil
	}
	return &CommentResp{
		CommentId: c.CommentId,
		TaskId:    c.TaskId,
		AuthorId:  c.AuthorId,
		Content:   c.Content,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
}
