package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = "payments"

const (
	MethodCreditCard   = "credit_card"
	MethodDebitCard    = "debit_card"
	MethodPayPal       = "paypal"
	MethodBankTransfer = "bank_transfer"
	MethodStripe       = "stripe"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

var (
	Methods      = []string{MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodStripe}
	Statuses     = []string{StatusPending, StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled}
	UniqueFields = []string{"transactionId"}
)

type Payment struct {
	domain.Base   `bson:",inline"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId" validate:"required"`
	UserName      string              `bson:"userName" json:"userName" validate:"required"`
	UserEmail     string              `bson:"userEmail" json:"userEmail" validate:"required,emailaddr"`
	Amount        float64             `bson:"amount" json:"amount" validate:"gte=0"`
	Currency      string              `bson:"currency" json:"currency" validate:"oneof=USD EUR GBP INR"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod" validate:"oneof=credit_card debit_card paypal bank_transfer stripe"`
	TransactionID string              `bson:"transactionId" json:"transactionId" validate:"required"`
	Status        string              `bson:"status" json:"status" validate:"oneof=pending completed failed refunded cancelled"`
	PlanID        *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	PlanName      string              `bson:"planName,omitempty" json:"planName,omitempty"`
}

type CreateRequest struct {
	UserID        string   `json:"userId" binding:"required,mongodb"`
	UserName      string   `json:"userName" binding:"required"`
	UserEmail     string   `json:"userEmail" binding:"required,emailaddr"`
	Amount        *float64 `json:"amount" binding:"required,gte=0"`
	Currency      *string  `json:"currency" binding:"omitempty,oneof=USD EUR GBP INR"`
	PaymentMethod string   `json:"paymentMethod" binding:"required,oneof=credit_card debit_card paypal bank_transfer stripe"`
	TransactionID string   `json:"transactionId" binding:"required"`
	Status        *string  `json:"status" binding:"omitempty,oneof=pending completed failed refunded cancelled"`
	PlanID        *string  `json:"planId" binding:"omitempty,mongodb"`
	PlanName      string   `json:"planName"`
}

type UpdateRequest struct {
	UserID        *string  `json:"userId" binding:"omitempty,mongodb"`
	UserName      *string  `json:"userName" binding:"omitempty,min=1"`
	UserEmail     *string  `json:"userEmail" binding:"omitempty,emailaddr"`
	Amount        *float64 `json:"amount" binding:"omitempty,gte=0"`
	Currency      *string  `json:"currency" binding:"omitempty,oneof=USD EUR GBP INR"`
	PaymentMethod *string  `json:"paymentMethod" binding:"omitempty,oneof=credit_card debit_card paypal bank_transfer stripe"`
	TransactionID *string  `json:"transactionId" binding:"omitempty,min=1"`
	Status        *string  `json:"status" binding:"omitempty,oneof=pending completed failed refunded cancelled"`
	PlanID        *string  `json:"planId" binding:"omitempty,mongodb"`
	PlanName      *string  `json:"planName"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (Payment, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return Payment{}, fmt.Errorf("userId: %w", err)
	}

	p := Payment{
		Base:          domain.NewBase(now),
		UserID:        userID,
		UserName:      strings.TrimSpace(req.UserName),
		UserEmail:     validation.NormalizeEmail(req.UserEmail),
		Amount:        domain.Or(req.Amount, 0),
		Currency:      domain.OrString(req.Currency, domain.CurrencyUSD),
		PaymentMethod: req.PaymentMethod,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Status:        domain.OrString(req.Status, StatusPending),
		PlanName:      strings.TrimSpace(req.PlanName),
	}

	if req.PlanID != nil && *req.PlanID != "" {
		if err := p.setPlan(req.PlanID); err != nil {
			return Payment{}, err
		}
	}

	return p, nil
}

func (p *Payment) Apply(req UpdateRequest, now time.Time) error {
	if req.UserID != nil {
		id, err := primitive.ObjectIDFromHex(*req.UserID)
		if err != nil {
			return fmt.Errorf("userId: %w", err)
		}
		p.UserID = id
	}
	domain.SetTrimmed(&p.UserName, req.UserName)
	if req.UserEmail != nil {
		p.UserEmail = validation.NormalizeEmail(*req.UserEmail)
	}
	domain.Set(&p.Amount, req.Amount)
	domain.Set(&p.Currency, req.Currency)
	domain.Set(&p.PaymentMethod, req.PaymentMethod)
	domain.SetTrimmed(&p.TransactionID, req.TransactionID)
	domain.Set(&p.Status, req.Status)
	if err := p.setPlan(req.PlanID); err != nil {
		return err
	}
	domain.SetTrimmed(&p.PlanName, req.PlanName)
	p.Touch(now)
	return nil
}

// setPlan leaves the plan alone for a nil hex. An empty hex removes the plan
// reference and its name.
func (p *Payment) setPlan(hex *string) error {
	if hex == nil {
		return nil
	}
	if strings.TrimSpace(*hex) == "" {
		p.PlanID = nil
		p.PlanName = ""
		return nil
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		return fmt.Errorf("planId: %w", err)
	}
	p.PlanID = &id
	return nil
}
