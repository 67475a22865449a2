package memory

import (
	"github.com/geocoder89/admindash/internal/domain/faq"
	"github.com/geocoder89/admindash/internal/domain/payment"
	"github.com/geocoder89/admindash/internal/domain/plan"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/support"
	"github.com/geocoder89/admindash/internal/domain/template"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/repo"
)

func NewStores() repo.Stores {
	return repo.Stores{
		Users:     NewCollection[user.User](user.Collection, user.UniqueFields...),
		Payments:  NewCollection[payment.Payment](payment.Collection, payment.UniqueFields...),
		Support:   NewCollection[support.Ticket](support.Collection),
		Plans:     NewCollection[plan.Plan](plan.Collection),
		Templates: NewCollection[template.Template](template.Collection),
		FAQs:      NewCollection[faq.FAQ](faq.Collection),
		Settings:  NewCollection[settings.Settings](settings.Collection, settings.UniqueFields...),
	}
}
