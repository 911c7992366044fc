package model

// SystemRole is the platform-wide role, distinct from per-team roles.
type SystemRole string

const (
	SystemRoleMember  SystemRole = "MEMBER"
	SystemRoleManager SystemRole = "MANAGER"
	SystemRoleAdmin   SystemRole = "ADMIN"
)

// UserStatus is the account lifecycle status.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

type User struct {
	BaseModel
	UserId     string     `gorm:"column:user_id" json:"userId"`
	Username   string     `gorm:"column:username" json:"username"`
	Email      string     `gorm:"column:email" json:"email"`
	Password   string     `gorm:"column:password" json:"-"` // bcrypt hash
	Avatar     string     `gorm:"column:avatar" json:"avatar"`
	SystemRole SystemRole `gorm:"column:system_role" json:"systemRole"`
	Status     UserStatus `gorm:"column:status" json:"status"`
}

func (User) TableName() string {
	return "t_user"
}

// IsActive reports whether the account may act at all.
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// IsSystemAdmin reports whether the account holds the platform admin role.
func (u *User) IsSystemAdmin() bool {
	return u != nil && u.SystemRole == SystemRoleAdmin
}

type RegisterReq struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar"`
}

type LoginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type LoginResp struct {
	UserInfo UserResp          `json:"userInfo"`
	Token    map[string]string `json:"token"`
}

type UpdateUserReq struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangeSystemRoleReq struct {
	SystemRole SystemRole `json:"systemRole" validate:"required"`
}

// TokenInfo token information stored in Redis
type TokenInfo struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpireAt     int64  `json:"expireAt"`
	CreateAt     int64  `json:"createAt"`
}

type UserResp struct {
	UserId     string     `json:"userId"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Avatar     string     `json:"avatar"`
	SystemRole SystemRole `json:"systemRole"`
	Status     UserStatus `json:"status"`
	CreatedAt  string     `json:"createdAt"`
}

func ToUserResp(u *User) *UserResp {
	if u == nil {
		return nil
	}
	return &UserResp{
		UserId:     u.UserId,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		SystemRole: u.SystemRole,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt.Format(timeLayout),
	}
}
