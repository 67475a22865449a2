package plan

import (
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
)

const Collection = "plans"

const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
	CycleLifetime  = "lifetime"

	CategoryBasic      = "basic"
	CategoryStandard   = "standard"
	CategoryPremium    = "premium"
	CategoryEnterprise = "enterprise"
)

var (
	Cycles     = []string{CycleMonthly, CycleQuarterly, CycleYearly, CycleLifetime}
	Categories = []string{CategoryBasic, CategoryStandard, CategoryPremium, CategoryEnterprise}
)

type Plan struct {
	domain.Base  `bson:",inline"`
	Name         string   `bson:"name" json:"name" validate:"required"`
	Description  string   `bson:"description" json:"description"`
	Price        float64  `bson:"price" json:"price" validate:"gte=0"`
	Currency     string   `bson:"currency" json:"currency" validate:"oneof=USD EUR GBP INR"`
	BillingCycle string   `bson:"billingCycle" json:"billingCycle" validate:"oneof=monthly quarterly yearly lifetime"`
	Category     string   `bson:"category" json:"category" validate:"oneof=basic standard premium enterprise"`
	Features     []string `bson:"features" json:"features"`
	IsActive     bool     `bson:"isActive" json:"isActive"`
	IsFeatured   bool     `bson:"isFeatured" json:"isFeatured"`
}

type CreateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" binding:"required,gte=0"`
	Currency     *string  `json:"currency" binding:"omitempty,oneof=USD EUR GBP INR"`
	BillingCycle *string  `json:"billingCycle" binding:"omitempty,oneof=monthly quarterly yearly lifetime"`
	Category     *string  `json:"category" binding:"omitempty,oneof=basic standard premium enterprise"`
	Features     []string `json:"features"`
	IsActive     *bool    `json:"isActive"`
	IsFeatured   *bool    `json:"isFeatured"`
}

type UpdateRequest struct {
	Name         *string   `json:"name" binding:"omitempty,min=1"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price" binding:"omitempty,gte=0"`
	Currency     *string   `json:"currency" binding:"omitempty,oneof=USD EUR GBP INR"`
	BillingCycle *string   `json:"billingCycle" binding:"omitempty,oneof=monthly quarterly yearly lifetime"`
	Category     *string   `json:"category" binding:"omitempty,oneof=basic standard premium enterprise"`
	Features     *[]string `json:"features"`
	IsActive     *bool     `json:"isActive"`
	IsFeatured   *bool     `json:"isFeatured"`
}

func NewFromCreateRequest(req CreateRequest, now time.Time) (Plan, error) {
	return Plan{
		Base:         domain.NewBase(now),
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Price:        domain.Or(req.Price, 0),
		Currency:     domain.OrString(req.Currency, domain.CurrencyUSD),
		BillingCycle: domain.OrString(req.BillingCycle, CycleMonthly),
		Category:     domain.OrString(req.Category, CategoryBasic),
		Features:     domain.Strings(req.Features),
		IsActive:     domain.Or(req.IsActive, true),
		IsFeatured:   domain.Or(req.IsFeatured, false),
	}, nil
}

func (p *Plan) Apply(req UpdateRequest, now time.Time) error {
	domain.SetTrimmed(&p.Name, req.Name)
	domain.SetTrimmed(&p.Description, req.Description)
	domain.Set(&p.Price, req.Price)
	domain.Set(&p.Currency, req.Currency)
	domain.Set(&p.BillingCycle, req.BillingCycle)
	domain.Set(&p.Category, req.Category)
	if req.Features != nil {
		p.Features = domain.Strings(*req.Features)
	}
	domain.Set(&p.IsActive, req.IsActive)
	domain.Set(&p.IsFeatured, req.IsFeatured)
	p.Touch(now)
	return nil
}
