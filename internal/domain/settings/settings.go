package settings

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
)

const Collection = "settings"

// Type is the discriminator, there is one document per type.
const (
	TypeGeneral      = "general"
	TypeEmail        = "email"
	TypePayment      = "payment"
	TypeNotification = "notification"
	TypeSecurity     = "security"
)

var (
	Types        = []string{TypeGeneral, TypeEmail, TypePayment, TypeNotification, TypeSecurity}
	UniqueFields = []string{"type"}
)

type Settings struct {
	domain.Base `bson:",inline"`
	Type        string         `bson:"type" json:"type" validate:"required,oneof=general email payment notification security"`
	Values      map[string]any `bson:"values" json:"values"`
	Description string         `bson:"description" json:"description"`
}

type UpsertRequest struct {
	// Type is read from the body only on POST /api/settings.
	Type        string         `json:"type" binding:"omitempty,oneof=general email payment notification security"`
	Values      map[string]any `json:"values"`
	Description *string        `json:"description"`
}

func IsType(s string) bool {
	return slices.Contains(Types, s)
}

// NewFromUpsertRequest builds the full replacement document for kind.
func NewFromUpsertRequest(kind string, req UpsertRequest, now time.Time) Settings {
	values := map[string]any{}
	maps.Copy(values, req.Values)

	return Settings{
		Base:        domain.NewBase(now),
		Type:        kind,
		Values:      values,
		Description: domain.OrString(req.Description, ""),
	}
}

// Defaults are written by the seed command for types that do not exist yet.
func Defaults(now time.Time) []Settings {
	return []Settings{
		{
			Base: domain.NewBase(now),
			Type: TypeGeneral,
			Values: map[string]any{
				"siteName":        "Admin Dashboard",
				"siteDescription": "",
				"timezone":        "UTC",
				"maintenanceMode": false,
			},
			Description: "General site settings",
		},
		{
			Base: domain.NewBase(now),
			Type: TypeEmail,
			Values: map[string]any{
				"smtpHost":  "",
				"smtpPort":  587,
				"fromEmail": "",
				"fromName":  "",
			},
			Description: "Outgoing email",
		},
		{
			Base: domain.NewBase(now),
			Type: TypePayment,
			Values: map[string]any{
				"currency":       domain.CurrencyUSD,
				"enabledMethods": []any{"credit_card", "paypal"},
				"taxRate":        0.0,
			},
			Description: "Payment processing",
		},
		{
			Base: domain.NewBase(now),
			Type: TypeNotification,
			Values: map[string]any{
				"emailNotifications": true,
				"smsNotifications":   false,
				"newTicketAlert":     true,
			},
			Description: "Admin notifications",
		},
		{
			Base: domain.NewBase(now),
			Type: TypeSecurity,
			Values: map[string]any{
				"sessionTimeoutMinutes": 60,
				"twoFactorRequired":     false,
				"passwordMinLength":     8,
			},
			Description: "Security policy",
		},
	}
}

func NormalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
