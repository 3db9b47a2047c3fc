package service

import (
	"testing"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func testTariff() TariffConfig {
	return TariffConfig{
		OpenHour:            5,
		CloseHour:           22,
		PeakHours:           map[int]bool{18: true},
		PeakHourFee:         150,
		OffPeakHourFee:      100,
		GuestHourlyFee:      70,
		LegacyPeakFlatFee:   300,
		LegacyMemberRate:    25,
		LegacyNonMemberRate: 70,
		RoundingUnit:        10,
	}
}

func memberParticipant(name string, id uint) models.Participant {
	return models.Participant{Name: name, IsMember: true, MemberID: &id}
}

func TestComputeFee_PeakOffPeakMix(t *testing.T) {
	calc := NewFeeCalculator(testTariff())

	participants := []models.Participant{
		memberParticipant("Member A", 1),
		memberParticipant("Member B", 2),
		{Name: "Guest One", IsMember: false},
	}

	// Hour 18 is peak: 150 + 70 = 220. Hour 19 is off-peak: 100 + 70 = 170.
	fee := calc.ComputeFee(18, 20, participants)

	assert.Equal(t, 250.0, fee.BaseTotal)
	assert.Equal(t, 140.0, fee.GuestTotal)
	assert.Equal(t, 390.0, fee.RawTotal)
	assert.Equal(t, 390.0, fee.Total) // already a multiple of 10
}

func TestComputeFee_Deterministic(t *testing.T) {
	calc := NewFeeCalculator(testTariff())
	participants := []models.Participant{memberParticipant("A", 1), {Name: "G"}}

	first := calc.ComputeFee(17, 20, participants)
	second := calc.ComputeFee(17, 20, participants)

	assert.Equal(t, first, second)
}

func TestComputeFee_RoundsUpToTen(t *testing.T) {
	tariff := testTariff()
	tariff.OffPeakHourFee = 183.3
	calc := NewFeeCalculator(tariff)

	fee := calc.ComputeFee(10, 11, nil)

	assert.Equal(t, 183.3, fee.RawTotal)
	assert.Equal(t, 190.0, fee.Total)
}

func TestComputeFee_MultipleOfTenUnchanged(t *testing.T) {
	tariff := testTariff()
	tariff.OffPeakHourFee = 180
	calc := NewFeeCalculator(tariff)

	fee := calc.ComputeFee(10, 11, nil)

	assert.Equal(t, 180.0, fee.Total)
}

func TestComputeFee_ZeroParticipants(t *testing.T) {
	calc := NewFeeCalculator(testTariff())

	// Hour tariffs still apply; the guest surcharge term is zero.
	fee := calc.ComputeFee(18, 20, nil)

	assert.Equal(t, 250.0, fee.BaseTotal)
	assert.Equal(t, 0.0, fee.GuestTotal)
	assert.Equal(t, 250.0, fee.Total)
}

func TestComputeFee_AccumulatesPerHourNotByMultiplication(t *testing.T) {
	calc := NewFeeCalculator(testTariff())

	// [17, 19): one off-peak and one peak hour. Multiplying either single
	// hour by 2 would give 200 or 300; the correct total is 250.
	fee := calc.ComputeFee(17, 19, nil)

	assert.Equal(t, 250.0, fee.Total)
}

func TestComputeFeeLegacy_FlatPeakAndHeadcountOffPeak(t *testing.T) {
	calc := NewFeeCalculator(testTariff())
	names := []string{"a", "b", "c"} // heuristic: 2 members, 1 non-member

	// Peak hour 18 charges the flat 300 regardless of headcount.
	assert.Equal(t, 300.0, calc.ComputeFeeLegacy(18, 19, names))

	// Off-peak hour: 2×25 + 1×70 = 120.
	assert.Equal(t, 120.0, calc.ComputeFeeLegacy(10, 11, names))
}

func TestRoundUpToUnit(t *testing.T) {
	assert.Equal(t, 190.0, roundUpToUnit(183.3, 10))
	assert.Equal(t, 180.0, roundUpToUnit(180.0, 10))
	assert.Equal(t, 10.0, roundUpToUnit(0.1, 10))
	assert.Equal(t, 0.0, roundUpToUnit(0, 10))
}
