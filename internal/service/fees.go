package service

import (
	"math"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
)

// TariffConfig carries every rate the fee calculator needs. It is always
// passed in explicitly; nothing in this package reads process-wide state.
type TariffConfig struct {
	OpenHour  int
	CloseHour int

	PeakHours      map[int]bool
	PeakHourFee    float64
	OffPeakHourFee float64
	GuestHourlyFee float64

	// Legacy rates apply only to plain name lists with no resolved
	// classification (ComputeFeeLegacy).
	LegacyPeakFlatFee   float64
	LegacyMemberRate    float64
	LegacyNonMemberRate float64

	// Grand totals are rounded up to a multiple of this unit.
	RoundingUnit float64
}

// FeeBreakdown separates the components the allocator needs: the rounded
// grand total is what the booking owes, GuestTotal is what the reserver
// absorbs on top of the even member split.
type FeeBreakdown struct {
	BaseTotal  float64
	GuestTotal float64
	RawTotal   float64
	Total      float64
}

type FeeCalculator struct {
	tariff TariffConfig
}

func NewFeeCalculator(tariff TariffConfig) *FeeCalculator {
	return &FeeCalculator{tariff: tariff}
}

func (f *FeeCalculator) Tariff() TariffConfig {
	return f.tariff
}

// ComputeFee prices the range [startHour, endHour) hour by hour. Each hour
// charges its own peak or off-peak base plus one guest surcharge per guest;
// a multi-hour booking is never priced as duration × one-hour fee, so a
// peak/off-peak mix within one booking stays correct. Rounding up to the
// tariff unit happens once, on the grand total.
func (f *FeeCalculator) ComputeFee(startHour, endHour int, participants []models.Participant) FeeBreakdown {
	guests := 0
	for _, p := range participants {
		if !p.IsMember {
			guests++
		}
	}

	var breakdown FeeBreakdown
	for h := startHour; h < endHour; h++ {
		if f.tariff.PeakHours[h] {
			breakdown.BaseTotal += f.tariff.PeakHourFee
		} else {
			breakdown.BaseTotal += f.tariff.OffPeakHourFee
		}
		breakdown.GuestTotal += float64(guests) * f.tariff.GuestHourlyFee
	}

	breakdown.RawTotal = breakdown.BaseTotal + breakdown.GuestTotal
	breakdown.Total = roundUpToUnit(breakdown.RawTotal, f.tariff.RoundingUnit)
	return breakdown
}

// ComputeFeeLegacy prices a plain name list that was never classified. Peak
// hours charge a flat fee regardless of headcount; off-peak hours charge
// per-head, assuming two thirds of the names are members. The headcount split
// is a documented approximation kept from the original tariff, not an exact
// rule.
func (f *FeeCalculator) ComputeFeeLegacy(startHour, endHour int, names []string) float64 {
	memberCount := len(names) * 2 / 3
	nonMemberCount := len(names) - memberCount

	var total float64
	for h := startHour; h < endHour; h++ {
		if f.tariff.PeakHours[h] {
			total += f.tariff.LegacyPeakFlatFee
			continue
		}
		total += float64(memberCount)*f.tariff.LegacyMemberRate +
			float64(nonMemberCount)*f.tariff.LegacyNonMemberRate
	}

	return roundUpToUnit(total, f.tariff.RoundingUnit)
}

func roundUpToUnit(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	return math.Ceil(v/unit) * unit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
