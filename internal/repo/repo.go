// Package repo groups one store per entity so the router and seeders can be
// wired against either backend.
package repo

import (
	"github.com/geocoder89/admindash/internal/domain/faq"
	"github.com/geocoder89/admindash/internal/domain/payment"
	"github.com/geocoder89/admindash/internal/domain/plan"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/support"
	"github.com/geocoder89/admindash/internal/domain/template"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
)

type Stores struct {
	Users     store.Store[user.User]
	Payments  store.Store[payment.Payment]
	Support   store.Store[support.Ticket]
	Plans     store.Store[plan.Plan]
	Templates store.Store[template.Template]
	FAQs      store.Store[faq.FAQ]
	Settings  store.Store[settings.Settings]
}
