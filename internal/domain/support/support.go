package support

import (
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/validation"
)

const Collection = "supports"

const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusResolved = "resolved"
)

var Statuses = []string{StatusNew, StatusRead, StatusReplied, StatusResolved}

// Ticket is a message sent to the support inbox.
type Ticket struct {
	domain.Base `bson:",inline"`
	Name        string `bson:"name" json:"name" validate:"required"`
	Email       string `bson:"email" json:"email" validate:"required,emailaddr"`
	Subject     string `bson:"subject" json:"subject" validate:"required,max=200"`
	Message     string `bson:"message" json:"message" validate:"required"`
	Status      string `bson:"status" json:"status" validate:"oneof=new read replied resolved"`
	AdminNotes  string `bson:"adminNotes" json:"adminNotes"`
}

type CreateRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,emailaddr"`
	Subject    string  `json:"subject" binding:"required,max=200"`
	Message    string  `json:"message" binding:"required"`
	Status     *string `json:"status" binding:"omitempty,oneof=new read replied resolved"`
	AdminNotes string  `json:"adminNotes"`
}

type UpdateRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1"`
	Email      *string `json:"email" binding:"omitempty,emailaddr"`
	Subject    *string `json:"subject" binding:"omitempty,min=1,max=200"`
	Message    *string `json:"message" binding:"omitempty,min=1"`
	Status     *string `json:"status" binding:"omitempty,oneof=new read replied resolved"`
	AdminNotes *string `json:"adminNotes"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (Ticket, error) {
	return Ticket{
		Base:       domain.NewBase(now),
		Name:       strings.TrimSpace(req.Name),
		Email:      validation.NormalizeEmail(req.Email),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		Status:     domain.OrString(req.Status, StatusNew),
		AdminNotes: strings.TrimSpace(req.AdminNotes),
	}, nil
}

func (t *Ticket) Apply(req UpdateRequest, now time.Time) error {
	domain.SetTrimmed(&t.Name, req.Name)
	if req.Email != nil {
		t.Email = validation.NormalizeEmail(*req.Email)
	}
	domain.SetTrimmed(&t.Subject, req.Subject)
	domain.SetTrimmed(&t.Message, req.Message)
	domain.Set(&t.Status, req.Status)
	domain.SetTrimmed(&t.AdminNotes, req.AdminNotes)
	t.Touch(now)
	return nil
}
