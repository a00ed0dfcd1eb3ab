package dto

import (
	"strings"

	"cleanops_backend/internals/features/users/user/model"
)

/* ===== REQUESTS ===== */

type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Role      string  `json:"role" validate:"required,oneof=ADMIN MANAGER SUPERVISOR AGENT"`
	Status    string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

func (r *CreateUserRequest) ToModel(passwordHash string) model.UserModel {
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}
	return model.UserModel{
		Email:        r.Email,
		PasswordHash: passwordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		Role:         r.Role,
		Status:       status,
	}
}

type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER SUPERVISOR AGENT"`
	Status    *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Role))
		r.Role = &v
	}
	if r.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

// BuildUpdateMap returns only the columns present in the request (password handled by the service).
func (r *UpdateUserRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.Email != nil {
		up["email"] = *r.Email
	}
	if r.FirstName != nil {
		up["first_name"] = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		up["last_name"] = strings.TrimSpace(*r.LastName)
	}
	if r.Phone != nil {
		up["phone"] = *r.Phone
	}
	if r.Role != nil {
		up["role"] = *r.Role
	}
	if r.Status != nil {
		up["status"] = *r.Status
	}
	return up
}

type ListUsersQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=ADMIN MANAGER SUPERVISOR AGENT"`
	Status string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}
