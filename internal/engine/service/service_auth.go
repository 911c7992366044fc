package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/http/jwt"
	"github.com/go-taskhub/taskhub/pkg/log"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo  repo.IUserRepository
	tokenRepo repo.ITokenRepository
}

func NewAuthService(userRepo repo.IUserRepository, tokenRepo repo.ITokenRepository) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// Login authenticates by username or email and issues a token pair. The
// pair is recorded in Redis so logout can revoke it before expiry.
func (s *AuthService) Login(ctx context.Context, req *model.LoginReq, auth *httpx.Auth) (*model.LoginResp, error) {
	// 1. find the account
	var userEntity *model.User
	var err error
	switch {
	case req.Username != "":
		userEntity, err = s.userRepo.GetUserByUsername(req.Username)
	case req.Email != "":
		userEntity, err = s.userRepo.GetUserByEmail(req.Email)
	default:
		return nil, errs.New(errs.KindAuthenticationRequired, "username or email is required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindAuthenticationRequired, "user does not exist")
		}
		return nil, errs.Wrap(errs.KindInternal, "get user", err)
	}

	// 2. verify the password
	if !comparePassword(userEntity.Password, req.Password) {
		log.Warnw("incorrect password", "userId", userEntity.UserId)
		return nil, errs.New(errs.KindAuthenticationRequired, "incorrect password")
	}

	// 3. inactive accounts cannot log in
	if !userEntity.IsActive() {
		return nil, errs.Newf(errs.KindActorNotActive, "user %s is %s", userEntity.UserId, userEntity.Status)
	}

	// 4. issue the token pair
	aToken, rToken, err := jwt.GenToken(userEntity.UserId, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		log.Errorw("generate tokens failed", "userId", userEntity.UserId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "generate tokens", err)
	}

	now := time.Now()
	tokenInfo := &model.TokenInfo{
		AccessToken:  aToken,
		RefreshToken: rToken,
		ExpireAt:     now.Add(auth.AccessExpire * time.Minute).Unix(),
		CreateAt:     now.Unix(),
	}

	// 5. record the session in Redis
	if err := s.tokenRepo.SetTokenInfo(ctx, userEntity.UserId, tokenInfo, auth.AccessExpire*time.Minute); err != nil {
		log.Errorw("store token failed", "userId", userEntity.UserId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "store token", err)
	}

	log.Infow("user logged in", "userId", userEntity.UserId)
	return &model.LoginResp{
		UserInfo: *model.ToUserResp(userEntity),
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
			"expireAt":     fmt.Sprintf("%d", tokenInfo.ExpireAt),
			"createAt":     fmt.Sprintf("%d", tokenInfo.CreateAt),
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, userId, rToken string, auth *httpx.Auth) (map[string]string, error) {
	// 1. the stored session must still exist and carry this refresh
	// token
	stored, err := s.tokenRepo.GetTokenInfo(ctx, userId)
	if err != nil {
		return nil, errs.New(errs.KindAuthenticationRequired, "session expired, log in again")
	}
	if stored.RefreshToken != rToken {
		return nil, errs.New(errs.KindAuthenticationRequired, "refresh token mismatch")
	}

	// 2. issue the new pair
	token, err := jwt.RefreshToken(auth, userId, rToken)
	if err != nil {
		log.Errorw("refresh token failed", "userId", userId, "error", err)
		return nil, errs.Wrap(errs.KindAuthenticationRequired, "refresh token", err)
	}

	now := time.Now()
	tokenInfo := &model.TokenInfo{
		AccessToken:  token["accessToken"],
		RefreshToken: token["refreshToken"],
		ExpireAt:     now.Add(auth.AccessExpire * time.Minute).Unix(),
		CreateAt:     now.Unix(),
	}
	if err := s.tokenRepo.SetTokenInfo(ctx, userId, tokenInfo, auth.AccessExpire*time.Minute); err != nil {
		log.Errorw("store refreshed token failed", "userId", userId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "store token", err)
	}

	token["expireAt"] = fmt.Sprintf("%d", tokenInfo.ExpireAt)
	return token, nil
}

// Logout revokes the stored session
func (s *AuthService) Logout(ctx context.Context, userId string) error {
	if err := s.tokenRepo.DelTokenInfo(ctx, userId); err != nil {
		log.Errorw("delete token failed", "userId", userId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete token", err)
	}
	log.Infow("user logged out", "userId", userId)
	return nil
}
