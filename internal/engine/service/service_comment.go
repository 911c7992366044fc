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

type CommentService struct {
	commentRepo repo.ICommentRepository
	authz       *authz.Engine
}

func NewCommentService(commentRepo repo.ICommentRepository, authzEngine *authz.Engine) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		authz:       authzEngine,
	}
}

// AddComment adds a comment to a task. Any member of the owning team
// may comment.
func (s *CommentService) AddComment(actor *model.User, taskId string, req *model.AddCommentReq) (*model.CommentResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. resolve the task's team; a deleted task resolves to not found
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
	commentEntity := &model.Comment{
		CommentId: id.GetUUID(),
		TaskId:    taskId,
		AuthorId:  actor.UserId,
		Content:   req.Content,
		Status:    model.AnnotationStatusActive,
	}
	if err := s.commentRepo.CreateComment(commentEntity); err != nil {
		log.Errorw("create comment failed", "taskId", taskId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "create comment", err)
	}

	return model.ToCommentResp(commentEntity), nil
}

// UpdateComment edits a comment's content. Author, team owner/admin, or
// system admin.
func (s *CommentService) UpdateComment(actor *model.User, commentId string, req *model.UpdateCommentReq) (*model.CommentResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target and parents
	commentEntity, teamId, err := s.loadComment(commentId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanModifyComment(actor, teamId, commentEntity)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.commentRepo.UpdateCommentContent(commentId, req.Content); err != nil {
		log.Errorw("update comment failed", "commentId", commentId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update comment", err)
	}

	commentEntity.Content = req.Content
	return model.ToCommentResp(commentEntity), nil
}

// DeleteComment soft-deletes a comment. Authors delete their own;
// owners/admins delete anyone's.
func (s *CommentService) DeleteComment(actor *model.User, commentId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target and parents
	commentEntity, teamId, err := s.loadComment(commentId)
	if err != nil {
		return err
	}

	// 3. capability check
	decision, err := s.authz.CanDeleteComment(actor, teamId, commentEntity)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.commentRepo.UpdateCommentStatus(commentId, model.AnnotationStatusDeleted); err != nil {
		log.Errorw("delete comment failed", "commentId", commentId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete comment", err)
	}

	log.Infow("comment deleted", "commentId", commentId, "actor", actor.UserId)
	return nil
}

// ListComments lists a task's live comments
func (s *CommentService) ListComments(actor *model.User, taskId string) ([]*model.CommentResp, error) {
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

	comments, err := s.commentRepo.ListCommentsByTask(taskId)
	if err != nil {
		log.Errorw("list comments failed", "taskId", taskId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list comments", err)
	}

	resp := make([]*model.CommentResp, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, model.ToCommentResp(c))
	}
	return resp, nil
}

// loadComment loads a live comment and resolves its owning team.
func (s *CommentService) loadComment(commentId string) (*model.Comment, string, error) {
	commentEntity, err := s.commentRepo.GetCommentById(commentId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.Newf(errs.KindNotFound, "comment %s not found", commentId)
		}
		return nil, "", errs.Wrap(errs.KindInternal, "get comment", err)
	}
	if commentEntity.Status == model.AnnotationStatusDeleted {
		return nil, "", errs.Newf(errs.KindNotFound, "comment %s not found", commentId)
	}

	teamId, err := s.authz.Resolver().TeamOfTask(commentEntity.TaskId)
	if err != nil {
		return nil, "", err
	}
	return commentEntity, teamId, nil
}
