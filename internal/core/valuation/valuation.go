// Package valuation turns distance-to-transit into a notional land price
// (THB per square wah) and a qualitative location tier.
package valuation

import (
	"fmt"
	"math"
	"strings"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// Params controls the linear-decay price model.
type Params struct {
	BasePrice         float64 `mapstructure:"base_price" json:"base_price"`
	DecayRate         float64 `mapstructure:"decay_rate" json:"decay_rate"` // price lost per meter
	MinPrice          float64 `mapstructure:"min_price" json:"min_price"`
	MaxPrice          float64 `mapstructure:"max_price" json:"max_price"`
	PremiumLine       string  `mapstructure:"premium_line" json:"premium_line"`
	PremiumMultiplier float64 `mapstructure:"premium_multiplier" json:"premium_multiplier"`
	PrimeRadius       float64 `mapstructure:"prime_radius" json:"prime_radius"`
	GoodRadius        float64 `mapstructure:"good_radius" json:"good_radius"`
}

// DefaultParams returns the reference model.
func DefaultParams() Params {
	return Params{
		BasePrice:         200000,
		DecayRate:         30,
		MinPrice:          20000,
		MaxPrice:          1000000,
		PremiumLine:       "Sukhumvit",
		PremiumMultiplier: 1.2,
		PrimeRadius:       500,
		GoodRadius:        1000,
	}
}

// Validate checks that the parameters describe a usable model.
func (p Params) Validate() error {
	var errs []string

	if p.MinPrice < 0 {
		errs = append(errs, "min_price must not be negative")
	}
	if p.MinPrice > p.MaxPrice {
		errs = append(errs, fmt.Sprintf("min_price (%v) exceeds max_price (%v)", p.MinPrice, p.MaxPrice))
	}
	if p.DecayRate < 0 {
		errs = append(errs, "decay_rate must not be negative")
	}
	if p.PremiumMultiplier <= 0 {
		errs = append(errs, "premium_multiplier must be positive")
	}
	if p.PrimeRadius <= 0 || p.GoodRadius <= p.PrimeRadius {
		errs = append(errs, "tier radii must satisfy 0 < prime_radius < good_radius")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid valuation params: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsPremium reports whether the station's line belongs to the premium family.
// Only the line name is consulted, never the station name.
func (p Params) IsPremium(station domain.TransitStation) bool {
	return p.PremiumLine != "" && strings.Contains(station.Line, p.PremiumLine)
}

// Estimate prices land distanceMeters away from its nearest station.
//
// The premium multiplier is applied after clamping, so a premium station can
// yield a price above MaxPrice. This matches the dashboard's observed output.
func (p Params) Estimate(station domain.TransitStation, distanceMeters float64) float64 {
	price := p.BasePrice - distanceMeters*p.DecayRate
	price = math.Max(p.MinPrice, math.Min(p.MaxPrice, price))
	if p.IsPremium(station) {
		price *= p.PremiumMultiplier
	}
	return price
}

// TierFor grades a raw (unmodified) distance. Bounds are exclusive.
func (p Params) TierFor(distanceMeters float64) domain.Tier {
	switch {
	case distanceMeters < p.PrimeRadius:
		return domain.TierPrime
	case distanceMeters < p.GoodRadius:
		return domain.TierGood
	default:
		return domain.TierCarDependent
	}
}
