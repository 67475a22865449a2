package mongo

import (
	"github.com/geocoder89/admindash/internal/domain/faq"
	"github.com/geocoder89/admindash/internal/domain/payment"
	"github.com/geocoder89/admindash/internal/domain/plan"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/support"
	"github.com/geocoder89/admindash/internal/domain/template"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Manager is the part of *db.Manager the stores need.
type Manager interface {
	Connector
	RegisterIndexes(coll string, models ...mongo.IndexModel)
}

// NewStores builds one collection per entity and registers the indexes that
// back their unique fields and list filters.
func NewStores(m Manager, obs Observer) repo.Stores {
	register(m, user.Collection, user.UniqueFields, "role", "status")
	register(m, payment.Collection, payment.UniqueFields, "status", "paymentMethod", "userId")
	register(m, support.Collection, nil, "status")
	register(m, plan.Collection, nil, "isActive", "category")
	register(m, template.Collection, nil, "type", "category", "isActive")
	register(m, faq.Collection, nil, "category", "isActive")
	register(m, settings.Collection, settings.UniqueFields)

	m.RegisterIndexes(faq.Collection, mongo.IndexModel{
		Keys: bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return repo.Stores{
		Users:     NewCollection[user.User](m, obs, user.Collection, user.UniqueFields...),
		Payments:  NewCollection[payment.Payment](m, obs, payment.Collection, payment.UniqueFields...),
		Support:   NewCollection[support.Ticket](m, obs, support.Collection),
		Plans:     NewCollection[plan.Plan](m, obs, plan.Collection),
		Templates: NewCollection[template.Template](m, obs, template.Collection),
		FAQs:      NewCollection[faq.FAQ](m, obs, faq.Collection),
		Settings:  NewCollection[settings.Settings](m, obs, settings.Collection, settings.UniqueFields...),
	}
}

func register(m Manager, coll string, unique []string, filters ...string) {
	models := make([]mongo.IndexModel, 0, len(unique)+len(filters)+1)

	for _, field := range unique {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetName(IndexName(field)).SetUnique(true),
		})
	}
	for _, field := range filters {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
	}
	models = append(models, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}})

	m.RegisterIndexes(coll, models...)
}
