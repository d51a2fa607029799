package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "US$",
}

func FormatCurrency(amount decimal.Decimal, currency string) string {
	value := amount.Round(2).String()
	if sym, ok := currencySymbols[currency]; ok {
		return sym + value
	}
	return currency + " " + value
}

func RewardLabel(rewardType string, amount *decimal.Decimal, currency string) string {
	switch rewardType {
	case RewardCash:
		if amount == nil || amount.IsZero() {
			return "Paid"
		}
		if currency == "" {
			currency = DefaultCurrency
		}
		return FormatCurrency(*amount, currency)
	case RewardFree:
		return "Free"
	case RewardSwap:
		return "Swap"
	case RewardNone:
		return "No reward"
	default:
		return "Unknown"
	}
}

// MinutesRemaining counts whole minutes until expiresAt, truncated toward zero.
func MinutesRemaining(expiresAt, now time.Time) int {
	return int(expiresAt.Sub(now) / time.Minute)
}

func FormatTimeRemaining(minutes int) string {
	if minutes < 0 {
		return "Expired"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	rest := minutes % 60
	if hours < 24 {
		if rest > 0 {
			return fmt.Sprintf("%dh %dm", hours, rest)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := int(math.Round(float64(minutes) / (60 * 24)))
	if days == 1 {
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", days)
}

const (
	BandUnder500m = "< 500m"
	BandUnder1km  = "< 1 km"
	Band1to3km    = "1-3 km"
	Band3to5km    = "3-5 km"
	Band5kmPlus   = "5+ km"
	BandUnknown   = "unknown"
)

const earthRadiusM = 6371000.0

// HaversineMeters is the great-circle distance between two points.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceBand buckets the distance so exact locations are never exposed.
func DistanceBand(lat1, lng1, lat2, lng2 float64) string {
	d := HaversineMeters(lat1, lng1, lat2, lng2)
	switch {
	case d < 500:
		return BandUnder500m
	case d < 1000:
		return BandUnder1km
	case d < 3000:
		return Band1to3km
	case d < 5000:
		return Band3to5km
	default:
		return Band5kmPlus
	}
}
