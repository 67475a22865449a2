package template

import (
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
)

const Collection = "templates"

const (
	TypeEmail        = "email"
	TypeSMS          = "sms"
	TypeNotification = "notification"

	CategoryGeneral   = "general"
	CategoryWelcome   = "welcome"
	CategoryBilling   = "billing"
	CategorySupport   = "support"
	CategoryMarketing = "marketing"
)

var (
	Types      = []string{TypeEmail, TypeSMS, TypeNotification}
	Categories = []string{CategoryGeneral, CategoryWelcome, CategoryBilling, CategorySupport, CategoryMarketing}
)

// Template is a reusable message body. Variables lists the placeholders
// the content expects, e.g. "name" for {{name}}.
type Template struct {
	domain.Base `bson:",inline"`
	Name        string   `bson:"name" json:"name" validate:"required"`
	Type        string   `bson:"type" json:"type" validate:"oneof=email sms notification"`
	Category    string   `bson:"category" json:"category" validate:"oneof=general welcome billing support marketing"`
	Subject     string   `bson:"subject" json:"subject"`
	Content     string   `bson:"content" json:"content" validate:"required"`
	Variables   []string `bson:"variables" json:"variables"`
	IsActive    bool     `bson:"isActive" json:"isActive"`
}

type CreateRequest struct {
	Name      string   `json:"name" binding:"required"`
	Type      *string  `json:"type" binding:"omitempty,oneof=email sms notification"`
	Category  *string  `json:"category" binding:"omitempty,oneof=general welcome billing support marketing"`
	Subject   string   `json:"subject"`
	Content   string   `json:"content" binding:"required"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"isActive"`
}

type UpdateRequest struct {
	Name      *string   `json:"name" binding:"omitempty,min=1"`
	Type      *string   `json:"type" binding:"omitempty,oneof=email sms notification"`
	Category  *string   `json:"category" binding:"omitempty,oneof=general welcome billing support marketing"`
	Subject   *string   `json:"subject"`
	Content   *string   `json:"content" binding:"omitempty,min=1"`
	Variables *[]string `json:"variables"`
	IsActive  *bool     `json:"isActive"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (Template, error) {
	return Template{
		Base:      domain.NewBase(now),
		Name:      strings.TrimSpace(req.Name),
		Type:      domain.OrString(req.Type, TypeEmail),
		Category:  domain.OrString(req.Category, CategoryGeneral),
		Subject:   strings.TrimSpace(req.Subject),
		Content:   req.Content,
		Variables: domain.Strings(req.Variables),
		IsActive:  domain.Or(req.IsActive, true),
	}, nil
}

func (t *Template) Apply(req UpdateRequest, now time.Time) error {
	domain.SetTrimmed(&t.Name, req.Name)
	domain.Set(&t.Type, req.Type)
	domain.Set(&t.Category, req.Category)
	domain.SetTrimmed(&t.Subject, req.Subject)
	domain.Set(&t.Content, req.Content)
	if req.Variables != nil {
		t.Variables = domain.Strings(*req.Variables)
	}
	domain.Set(&t.IsActive, req.IsActive)
	t.Touch(now)
	return nil
}
