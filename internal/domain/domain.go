// Package domain holds what every stored document shares.
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base is inlined into every document.
type Base struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StoredTime is t as the document store keeps it: UTC, millisecond precision.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func NewBase(now time.Time) Base {
	now = StoredTime(now)
	return Base{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = StoredTime(now)
}

// Currencies accepted by plans and payments.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyINR = "INR"
)

var Currencies = []string{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR}

// Or returns v when it is set, otherwise fallback.
func Or[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func OrString(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return strings.TrimSpace(*v)
}

// Set copies *src into dst when src is present.
func Set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func SetTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// Strings returns a non-nil copy so empty lists encode as [].
func Strings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
