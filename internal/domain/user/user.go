package user

import (
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/validation"
)

const Collection = "users"

const (
	RoleAdmin   = "Admin"
	RoleUser    = "User"
	RoleManager = "Manager"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

var (
	Roles        = []string{RoleAdmin, RoleUser, RoleManager}
	Statuses     = []string{StatusActive, StatusInactive, StatusPending}
	UniqueFields = []string{"email"}
)

type User struct {
	domain.Base `bson:",inline"`
	Name        string `bson:"name" json:"name" validate:"required,max=100"`
	Email       string `bson:"email" json:"email" validate:"required,emailaddr"`
	Phone       string `bson:"phone" json:"phone" validate:"max=30"`
	Role        string `bson:"role" json:"role" validate:"oneof=Admin User Manager"`
	Status      string `bson:"status" json:"status" validate:"oneof=active inactive pending"`
	Image       string `bson:"image" json:"image"`
}

type CreateRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Email  string  `json:"email" binding:"required,emailaddr"`
	Phone  string  `json:"phone" binding:"omitempty,max=30"`
	Role   *string `json:"role" binding:"omitempty,oneof=Admin User Manager"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive pending"`
	Image  string  `json:"image"`
}

// UpdateRequest is a partial payload, nil fields keep their stored value.
type UpdateRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email  *string `json:"email" binding:"omitempty,emailaddr"`
	Phone  *string `json:"phone" binding:"omitempty,max=30"`
	Role   *string `json:"role" binding:"omitempty,oneof=Admin User Manager"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive pending"`
	Image  *string `json:"image"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (User, error) {
	return User{
		Base:   domain.NewBase(now),
		Name:   strings.TrimSpace(req.Name),
		Email:  validation.NormalizeEmail(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
		Role:   domain.OrString(req.Role, RoleUser),
		Status: domain.OrString(req.Status, StatusActive),
		Image:  strings.TrimSpace(req.Image),
	}, nil
}

func (u *User) Apply(req UpdateRequest, now time.Time) error {
	domain.SetTrimmed(&u.Name, req.Name)
	if req.Email != nil {
		u.Email = validation.NormalizeEmail(*req.Email)
	}
	domain.SetTrimmed(&u.Phone, req.Phone)
	domain.Set(&u.Role, req.Role)
	domain.Set(&u.Status, req.Status)
	domain.SetTrimmed(&u.Image, req.Image)
	u.Touch(now)
	return nil
}
