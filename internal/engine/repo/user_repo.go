package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
)

type IUserRepository interface {
	CreateUser(u *model.User) error
	GetUserById(userId string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateUser(userId string, updates map[string]interface{}) error
	UpdateUserStatus(userId string, status model.UserStatus) error
	UpdateSystemRole(userId string, role model.SystemRole) error
	CheckUsernameExists(username string) (bool, error)
	CheckEmailExists(email string) (bool, error)
	CountActiveAdmins() (int64, error)
	ListUsers(page, pageSize int) ([]*model.User, int64, error)
}

type UserRepo struct {
	db database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{db: db}
}

// CreateUser creates a user
func (r *UserRepo) CreateUser(u *model.User) error {
	return r.db.DB().Create(u).Error
}

// GetUserById gets a user by user id
func (r *UserRepo) GetUserById(userId string) (*model.User, error) {
	var u model.User
	err := r.db.DB().Where("user_id = ?", userId).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername gets a user by username
func (r *UserRepo) GetUserByUsername(username string) (*model.User, error) {
	var u model.User
	err := r.db.DB().Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail gets a user by email
func (r *UserRepo) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := r.db.DB().Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates user fields
func (r *UserRepo) UpdateUser(userId string, updates map[string]interface{}) error {
	return r.db.DB().Model(&model.User{}).
		Where("user_id = ?", userId).
		Updates(updates).Error
}

// UpdateUserStatus updates the account lifecycle status
func (r *UserRepo) UpdateUserStatus(userId string, status model.UserStatus) error {
	return r.db.DB().Model(&model.User{}).
		Where("user_id = ?", userId).
		Update("status", status).Error
}

// UpdateSystemRole updates the platform-wide role
func (r *UserRepo) UpdateSystemRole(userId string, role model.SystemRole) error {
	return r.db.DB().Model(&model.User{}).
		Where("user_id = ?", userId).
		Update("system_role", role).Error
}

// CheckUsernameExists checks whether a username is taken
func (r *UserRepo) CheckUsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.DB().Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// CheckEmailExists checks whether an email is taken
func (r *UserRepo) CheckEmailExists(email string) (bool, error) {
	var count int64
	err := r.db.DB().Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// CountActiveAdmins counts active platform admins. Demotion and
// deactivation must keep this above zero.
func (r *UserRepo) CountActiveAdmins() (int64, error) {
	var count int64
	err := r.db.DB().Model(&model.User{}).
		Where("system_role = ? AND status = ?", model.SystemRoleAdmin, model.UserStatusActive).
		Count(&count).Error
	return count, err
}

// ListUsers lists users with pagination
func (r *UserRepo) ListUsers(page, pageSize int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	db := r.db.DB().Model(&model.User{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&users).Error
	return users, total, err
}
