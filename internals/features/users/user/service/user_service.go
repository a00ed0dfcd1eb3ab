package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/users/user/dto"
	"cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableUsers = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"lastName":  "last_name",
	"role":      "role",
}

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

func (s *UserService) List(ctx context.Context, lq helper.ListQuery, f dto.ListUsersQuery) ([]model.UserModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.UserModel{})
	q = helper.ApplySearch(q, lq, "email", "first_name", "last_name")
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return helper.Paginate[model.UserModel](q, lq, sortableUsers, "createdAt")
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	return helper.FindAny[model.UserModel](s.db.WithContext(ctx), id, "user")
}

func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.UserModel, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	m := req.ToModel(hash)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("email %s is already registered", req.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", zap.String("user_id", m.ID.String()), zap.String("role", m.Role))
	return &m, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*model.UserModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.UserModel](db, id, "user")
	if err != nil {
		return nil, err
	}
	up := req.BuildUpdateMap()
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		up["password_hash"] = hash
	}
	if len(up) == 0 {
		return m, nil
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("email is already registered")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return helper.FindLive[model.UserModel](db, id, "user")
}

// Delete soft-deletes a user; an account cannot delete itself.
func (s *UserService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return helper.NewConflict("you cannot delete your own account")
	}
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.UserModel](db, id, "user")
	if err != nil {
		return err
	}
	return db.Delete(m).Error
}
