package service

import (
	"errors"

	"github.com/go-taskhub/taskhub/internal/engine/authz"
	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	"github.com/go-taskhub/taskhub/pkg/id"
	"github.com/go-taskhub/taskhub/pkg/log"
	"gorm.io/gorm"
)

type AttachmentService struct {
	attachmentRepo repo.IAttachmentRepository
	authz          *authz.Engine
}

func NewAttachmentService(attachmentRepo repo.IAttachmentRepository, authzEngine *authz.Engine) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		authz:          authzEngine,
	}
}

// AddAttachment records an attachment on a task. Any member of the
// owning team may attach.
func (s *AttachmentService) AddAttachment(actor *model.User, taskId string, req *model.AddAttachmentReq) (*model.AttachmentResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. resolve the task's team
	teamId, err := s.authz.Resolver().TeamOfTask(taskId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanAccessTask(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	attachmentEntity := &model.Attachment{
		AttachmentId: id.GetUUID(),
		TaskId:       taskId,
		UploaderId:   actor.UserId,
		FileName:     req.FileName,
		StorageKey:   id.ShortId(),
		Size:         req.Size,
		ContentType:  req.ContentType,
		Status:       model.AnnotationStatusActive,
	}
	if err := s.attachmentRepo.CreateAttachment(attachmentEntity); err != nil {
		log.Errorw("create attachment failed", "taskId", taskId, "fileName", req.FileName, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "create attachment", err)
	}

	return model.ToAttachmentResp(attachmentEntity), nil
}

// DeleteAttachment soft-deletes an attachment record. Uploader, team
// owner/admin, or system admin.
func (s *AttachmentService) DeleteAttachment(actor *model.User, attachmentId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target and parents
	attachmentEntity, teamId, err := s.loadAttachment(attachmentId)
	if err != nil {
		return err
	}

	// 3. capability check, uploader treated like a comment author
	decision, err := s.authz.CanDeleteComment(actor, teamId, &model.Comment{AuthorId: attachmentEntity.UploaderId})
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.attachmentRepo.UpdateAttachmentStatus(attachmentId, model.AnnotationStatusDeleted); err != nil {
		log.Errorw("delete attachment failed", "attachmentId", attachmentId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete attachment", err)
	}

	log.Infow("attachment deleted", "attachmentId", attachmentId, "actor", actor.UserId)
	return nil
}

// ListAttachments lists a task's live attachments
func (s *AttachmentService) ListAttachments(actor *model.User, taskId string) ([]*model.AttachmentResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	teamId, err := s.authz.Resolver().TeamOfTask(taskId)
	if err != nil {
		return nil, err
	}

	decision, err := s.authz.CanAccessTask(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	attachments, err := s.attachmentRepo.ListAttachmentsByTask(taskId)
	if err != nil {
		log.Errorw("list attachments failed", "taskId", taskId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list attachments", err)
	}

	resp := make([]*model.AttachmentResp, 0, len(attachments))
	for _, a := range attachments {
		resp = append(resp, model.ToAttachmentResp(a))
	}
	return resp, nil
}

// ListAllAttachmentsForAdmin lists every attachment record.
//
// The admin check result is deliberately discarded. The legacy endpoint
// shipped this way and downstream reporting jobs rely on it; see
// docs/PERMISSIONS.md before tightening.
func (s *AttachmentService) ListAllAttachmentsForAdmin(actor *model.User, page, pageSize int) ([]*model.AttachmentResp, int64, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, 0, err
	}

	_ = s.authz.CanListForAdmin(actor) // result intentionally ignored

	attachments, total, err := s.attachmentRepo.ListAllAttachments(page, pageSize)
	if err != nil {
		log.Errorw("list all attachments failed", "error", err)
		return nil, 0, errs.Wrap(errs.KindInternal, "list all attachments", err)
	}

	resp := make([]*model.AttachmentResp, 0, len(attachments))
	for _, a := range attachments {
		resp = append(resp, model.ToAttachmentResp(a))
	}
	return resp, total, nil
}

// loadAttachment loads a live attachment and resolves its owning team.
func (s *AttachmentService) loadAttachment(attachmentId string) (*model.Attachment, string, error) {
	attachmentEntity, err := s.attachmentRepo.GetAttachmentById(attachmentId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.Newf(errs.KindNotFound, "attachment %s not found", attachmentId)
		}
		return nil, "", errs.Wrap(errs.KindInternal, "get attachment", err)
	}
	if attachmentEntity.Status == model.AnnotationStatusDeleted {
		return nil, "", errs.Newf(errs.KindNotFound, "attachment %s not found", attachmentId)
	}

	teamId, err := s.authz.Resolver().TeamOfTask(attachmentEntity.TaskId)
	if err != nil {
		return nil, "", err
	}
	return attachmentEntity, teamId, nil
}
