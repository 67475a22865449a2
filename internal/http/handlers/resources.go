package handlers

import (
	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/domain/faq"
	"github.com/geocoder89/admindash/internal/domain/payment"
	"github.com/geocoder89/admindash/internal/domain/plan"
	"github.com/geocoder89/admindash/internal/domain/support"
	"github.com/geocoder89/admindash/internal/domain/template"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
)

// newest first
var byCreatedDesc = []store.SortKey{{Field: "createdAt", Desc: true}}

func UserResource() Resource[user.User, user.CreateRequest, user.UpdateRequest] {
	return Resource[user.User, user.CreateRequest, user.UpdateRequest]{
		Name:       "User",
		Collection: user.Collection,
		Filters: []Filter{
			EnumFilter("role", "role", user.Roles),
			EnumFilter("status", "status", user.Statuses),
		},
		Sort:  byCreatedDesc,
		New:   user.NewFromCreateRequest,
		Merge: (*user.User).Apply,
	}
}

func PaymentResource() Resource[payment.Payment, payment.CreateRequest, payment.UpdateRequest] {
	return Resource[payment.Payment, payment.CreateRequest, payment.UpdateRequest]{
		Name:       "Payment",
		Collection: payment.Collection,
		Filters: []Filter{
			EnumFilter("status", "status", payment.Statuses),
			IDFilter("userId", "userId"),
			EnumFilter("currency", "currency", domain.Currencies),
			EnumFilter("paymentMethod", "paymentMethod", payment.Methods),
		},
		Sort:  byCreatedDesc,
		New:   payment.NewFromCreateRequest,
		Merge: (*payment.Payment).Apply,
	}
}

func SupportResource() Resource[support.Ticket, support.CreateRequest, support.UpdateRequest] {
	return Resource[support.Ticket, support.CreateRequest, support.UpdateRequest]{
		Name:       "Support ticket",
		Collection: support.Collection,
		Filters: []Filter{
			EnumFilter("status", "status", support.Statuses),
		},
		Sort:  byCreatedDesc,
		New:   support.NewFromCreateRequest,
		Merge: (*support.Ticket).Apply,
	}
}

func PlanResource() Resource[plan.Plan, plan.CreateRequest, plan.UpdateRequest] {
	return Resource[plan.Plan, plan.CreateRequest, plan.UpdateRequest]{
		Name:       "Plan",
		Collection: plan.Collection,
		Filters: []Filter{
			EnumFilter("category", "category", plan.Categories),
			BoolFilter("active", "isActive"),
			BoolFilter("featured", "isFeatured"),
		},
		Sort:  byCreatedDesc,
		New:   plan.NewFromCreateRequest,
		Merge: (*plan.Plan).Apply,
	}
}

func TemplateResource() Resource[template.Template, template.CreateRequest, template.UpdateRequest] {
	return Resource[template.Template, template.CreateRequest, template.UpdateRequest]{
		Name:       "Template",
		Collection: template.Collection,
		Filters: []Filter{
			EnumFilter("type", "type", template.Types),
			EnumFilter("category", "category", template.Categories),
			BoolFilter("active", "isActive"),
		},
		Sort:  byCreatedDesc,
		New:   template.NewFromCreateRequest,
		Merge: (*template.Template).Apply,
	}
}

func FAQResource() Resource[faq.FAQ, faq.CreateRequest, faq.UpdateRequest] {
	return Resource[faq.FAQ, faq.CreateRequest, faq.UpdateRequest]{
		Name:       "FAQ",
		Collection: faq.Collection,
		Filters: []Filter{
			EnumFilter("category", "category", faq.Categories),
			BoolFilter("active", "isActive"),
		},
		// explicit order first, newest first within the same order
		Sort: []store.SortKey{
			{Field: "order"},
			{Field: "createdAt", Desc: true},
		},
		New:   faq.NewFromCreateRequest,
		Merge: (*faq.FAQ).Apply,
	}
}
