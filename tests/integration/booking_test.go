//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTariff() service.TariffConfig {
	return service.TariffConfig{
		OpenHour:  5,
		CloseHour: 22,
		PeakHours: map[int]bool{18: true},

		PeakHourFee:    150,
		OffPeakHourFee: 100,
		GuestHourlyFee: 70,

		LegacyPeakFlatFee:   300,
		LegacyMemberRate:    25,
		LegacyNonMemberRate: 70,

		RoundingUnit: 10,
	}
}

func newReservationService() service.ReservationService {
	bookingRepo := repository.NewBookingRepository(testDB)
	paymentRepo := repository.NewPaymentRepository(testDB)
	memberRepo := repository.NewMemberRepository(testDB)
	blockRepo := repository.NewBlockedEventRepository(testDB)

	availability := service.NewAvailabilityChecker(bookingRepo, blockRepo, service.AvailabilityConfig{
		OpenHour:       5,
		CloseHour:      22,
		ClosureWeekday: time.Wednesday,
		ClosureHours:   []int{18, 19},
	})
	return service.NewReservationService(
		bookingRepo, paymentRepo, memberRepo,
		availability,
		service.NewPlayerResolver(),
		service.NewFeeCalculator(testTariff()),
		service.NewPaymentAllocator(paymentRepo, nil),
		nil,
	)
}

func createTestMember(t *testing.T, name string) *models.Member {
	t.Helper()
	member := &models.Member{Name: name, Status: models.MemberApproved}
	require.NoError(t, testDB.Create(member).Error)
	return member
}

// courtDay returns a near-future date that avoids the Wednesday closure, so
// evening slots are always bookable.
func courtDay() time.Time {
	d := models.DateOnly(time.Now()).AddDate(0, 0, 2)
	if d.Weekday() == time.Wednesday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Test: booking with two members and one guest → 390 total, reserver absorbs
// the guest surcharge on top of the even member split.
func TestCreateBookingAllocatesPayments(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	createTestMember(t, "Maria Santos")
	svc := newReservationService()

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingInput{
		Date:             courtDay(),
		StartHour:        18,
		Duration:         2,
		ParticipantNames: []string{"Jon Dela Cruz", "Maria Santos", "Guest One"},
		ReserverID:       jon.ID,
	})
	require.NoError(t, err)

	// 150 peak + 100 off-peak + 2h × 70 guest = 390, already a multiple of 10.
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, 390.0, booking.TotalFee)
	require.Len(t, booking.Payments, 2)

	byMember := map[uint]float64{}
	for _, p := range booking.Payments {
		byMember[p.MemberID] = p.Amount
		assert.Equal(t, models.PaymentPending, p.Status)
	}
	assert.Equal(t, 265.0, byMember[jon.ID], "reserver owes share plus guest surcharge")

	var dbPayments []models.Payment
	require.NoError(t, testDB.Where("booking_id = ?", booking.ID).Find(&dbPayments).Error)
	assert.Len(t, dbPayments, 2)
}

// Test: two bookings for the same slot → second rejected as a conflict.
func TestDuplicateSlotRejected(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	in := service.CreateBookingInput{
		Date:             courtDay(),
		StartHour:        10,
		Duration:         2,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	}
	_, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), in)
	var conflict *service.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.RejectSlotConflict, conflict.Code)
}

// Test: concurrent requests for the same slot → the partial unique index lets
// exactly one create through.
func TestConcurrentSlotRace(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	attempts := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), service.CreateBookingInput{
				Date:             courtDay(),
				StartHour:        14,
				Duration:         1,
				ParticipantNames: []string{"Jon Dela Cruz"},
				ReserverID:       jon.ID,
			})
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one concurrent booking should win the slot")

	var count int64
	testDB.Model(&models.Booking{}).
		Where("date = ? AND start_hour = ? AND status IN ?", courtDay(), 14,
			[]models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusBlocked}).
		Count(&count)
	assert.Equal(t, int64(1), count, "DB should hold exactly 1 active booking for the slot")
}

// Test: shrinking a booking cancels the stale payment rows and creates fresh
// ones matching the new fee.
func TestUpdateBookingReallocatesPayments(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingInput{
		Date:             courtDay(),
		StartHour:        18,
		Duration:         2,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 250.0, booking.TotalFee)

	newDuration := 1
	updated, err := svc.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingInput{
		Duration: &newDuration,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.TotalFee)

	var pending, cancelled []models.Payment
	require.NoError(t, testDB.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentPending).Find(&pending).Error)
	require.NoError(t, testDB.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCancelled).Find(&cancelled).Error)

	require.Len(t, pending, 1)
	assert.Equal(t, 150.0, pending[0].Amount)
	require.Len(t, cancelled, 1)
	assert.Equal(t, 250.0, cancelled[0].Amount, "original obligation kept as a cancelled audit row")
}

// Test: cancelling a booking frees the slot and cancels its pending payments.
func TestCancelBookingCancelsPayments(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	in := service.CreateBookingInput{
		Date:             courtDay(),
		StartHour:        9,
		Duration:         1,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	}
	booking, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)

	cancelledBooking, refundTriggered, err := svc.CancelBooking(context.Background(), booking.ID, "rain")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelledBooking.Status)
	assert.False(t, refundTriggered, "unpaid booking never triggers a refund")

	var pendingCount int64
	testDB.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentPending).
		Count(&pendingCount)
	assert.Equal(t, int64(0), pendingCount)

	// The slot is free again.
	_, err = svc.CreateBooking(context.Background(), in)
	assert.NoError(t, err)
}

// Test: a member with an overdue payment cannot book until it is settled.
func TestOverdueGateBlocksReserver(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	past := models.DateOnly(time.Now()).AddDate(0, 0, -5)
	old := &models.Booking{
		Date:          past,
		StartHour:     18,
		Duration:      2,
		EndHour:       20,
		Status:        models.StatusCompleted,
		PaymentStatus: models.AggregateUnpaid,
		TotalFee:      265,
		ReserverID:    &jon.ID,
	}
	require.NoError(t, testDB.Create(old).Error)
	require.NoError(t, testDB.Create(&models.Payment{
		BookingID:   old.ID,
		MemberID:    jon.ID,
		Amount:      265,
		DueDate:     past.AddDate(0, 0, 1),
		Status:      models.PaymentPending,
		Description: fmt.Sprintf("Court booking %s 18:00-20:00", past.Format("2006-01-02")),
	}).Error)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingInput{
		Date:             courtDay(),
		StartHour:        10,
		Duration:         1,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	})

	var gate *service.GateError
	require.ErrorAs(t, err, &gate)
	assert.NotEmpty(t, gate.Items)
	assert.Equal(t, 265.0, gate.Items[0].Amount)
}

// Test: a synced external event blocks overlapping bookings and is named in
// the rejection.
func TestExternalBlockConflict(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	day := courtDay()
	require.NoError(t, testDB.Create(&models.BlockedEvent{
		ExternalID: 77,
		Name:       "Club Open Tournament",
		Date:       day,
		StartHour:  10,
		EndHour:    13,
	}).Error)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingInput{
		Date:             day,
		StartHour:        12,
		Duration:         2,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	})

	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.RejectExternalBlock, conflict.Code)
	assert.Equal(t, "Club Open Tournament", conflict.SourceEvent)
	assert.Equal(t, []int{12}, conflict.Hours)
}

// Test: stale pending bookings are swept to no_show and stop occupying the
// timeline.
func TestNoShowSweep(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	yesterday := models.DateOnly(time.Now()).AddDate(0, 0, -1)
	stale := &models.Booking{
		Date:       yesterday,
		StartHour:  10,
		Duration:   1,
		EndHour:    11,
		Status:     models.StatusPending,
		TotalFee:   100,
		ReserverID: &jon.ID,
	}
	require.NoError(t, testDB.Create(stale).Error)

	swept, err := svc.SweepNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var refreshed models.Booking
	require.NoError(t, testDB.First(&refreshed, stale.ID).Error)
	assert.Equal(t, models.StatusNoShow, refreshed.Status)
}

// Test: an administrative block occupies the slot with no fee attached.
func TestCreateBlockOccupiesSlot(t *testing.T) {
	cleanTables()
	jon := createTestMember(t, "Jon Dela Cruz")
	svc := newReservationService()

	day := courtDay()
	block, err := svc.CreateBlock(context.Background(), service.CreateBlockInput{
		Date:        day,
		StartHour:   6,
		Duration:    12,
		BlockReason: "resurfacing",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, block.Status)
	assert.Equal(t, 0.0, block.TotalFee)

	_, err = svc.CreateBooking(context.Background(), service.CreateBookingInput{
		Date:             day,
		StartHour:        10,
		Duration:         2,
		ParticipantNames: []string{"Jon Dela Cruz"},
		ReserverID:       jon.ID,
	})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.RejectSlotConflict, conflict.Code)
}
