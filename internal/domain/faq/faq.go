package faq

import (
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
)

const Collection = "faqs"

const (
	CategoryGeneral   = "general"
	CategoryAccount   = "account"
	CategoryBilling   = "billing"
	CategoryTechnical = "technical"
	CategoryOther     = "other"
)

var Categories = []string{CategoryGeneral, CategoryAccount, CategoryBilling, CategoryTechnical, CategoryOther}

type FAQ struct {
	domain.Base `bson:",inline"`
	Question    string `bson:"question" json:"question" validate:"required"`
	Answer      string `bson:"answer" json:"answer" validate:"required"`
	Category    string `bson:"category" json:"category" validate:"oneof=general account billing technical other"`
	Order       int    `bson:"order" json:"order" validate:"gte=0"`
	IsActive    bool   `bson:"isActive" json:"isActive"`
}

type CreateRequest struct {
	Question string  `json:"question" binding:"required"`
	Answer   string  `json:"answer" binding:"required"`
	Category *string `json:"category" binding:"omitempty,oneof=general account billing technical other"`
	Order    *int    `json:"order" binding:"omitempty,gte=0"`
	IsActive *bool   `json:"isActive"`
}

type UpdateRequest struct {
	Question *string `json:"question" binding:"omitempty,min=1"`
	Answer   *string `json:"answer" binding:"omitempty,min=1"`
	Category *string `json:"category" binding:"omitempty,oneof=general account billing technical other"`
	Order    *int    `json:"order" binding:"omitempty,gte=0"`
	IsActive *bool   `json:"isActive"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (FAQ, error) {
	return FAQ{
		Base:     domain.NewBase(now),
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Category: domain.OrString(req.Category, CategoryGeneral),
		Order:    domain.Or(req.Order, 0),
		IsActive: domain.Or(req.IsActive, true),
	}, nil
}

func (f *FAQ) Apply(req UpdateRequest, now time.Time) error {
	domain.SetTrimmed(&f.Question, req.Question)
	domain.SetTrimmed(&f.Answer, req.Answer)
	domain.Set(&f.Category, req.Category)
	domain.Set(&f.Order, req.Order)
	domain.Set(&f.IsActive, req.IsActive)
	f.Touch(now)
	return nil
}
