package service

import (
	"context"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
)

// AvailabilityConfig holds the operating window and the weekly recurring
// closure. The closure is a pure function of the date: on ClosureWeekday the
// listed hours are never valid start hours, though they remain valid end
// boundaries.
type AvailabilityConfig struct {
	OpenHour       int
	CloseHour      int
	ClosureWeekday time.Weekday
	ClosureHours   []int
}

type AvailabilityChecker struct {
	bookings repository.BookingRepository
	blocks   repository.BlockedEventRepository
	cfg      AvailabilityConfig
}

func NewAvailabilityChecker(bookings repository.BookingRepository, blocks repository.BlockedEventRepository, cfg AvailabilityConfig) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings, blocks: blocks, cfg: cfg}
}

// IsRangeAvailable returns nil when [startHour, endHour) can be booked on the
// date. Otherwise it returns a *ConflictError naming the colliding hours and,
// for overlay hits, the source event. Only occupying statuses participate;
// excludeID lets an edit ignore its own prior version. The in-memory check is
// the fast path — the partial unique index on (date, start_hour) is the
// authoritative guard against races.
func (a *AvailabilityChecker) IsRangeAvailable(ctx context.Context, date time.Time, startHour, endHour int, excludeID *uint) error {
	existing, err := a.bookings.FindActiveByDate(ctx, date, excludeID)
	if err != nil {
		return err
	}

	var conflictHours []int
	for _, b := range existing {
		// Overlap: the existing booking starts inside the candidate, ends
		// inside it, or fully contains it.
		if b.StartHour < endHour && b.EndHour > startHour {
			conflictHours = append(conflictHours, intersectHours(startHour, endHour, b.StartHour, b.EndHour)...)
		}
	}
	if len(conflictHours) > 0 {
		return &ConflictError{Code: RejectSlotConflict, Hours: dedupeHours(conflictHours)}
	}

	blocked, err := a.blocks.FindByDate(ctx, date)
	if err != nil {
		return err
	}
	for _, ev := range blocked {
		if ev.StartHour < endHour && ev.EndHour > startHour {
			return &ConflictError{
				Code:        RejectExternalBlock,
				Hours:       intersectHours(startHour, endHour, ev.StartHour, ev.EndHour),
				SourceEvent: ev.Name,
			}
		}
	}

	return nil
}

// StartHours lists the hours usable as a booking start on the date. An hour
// qualifies when no occupying booking covers it, no external block covers it,
// and it is not a weekly-closure hour. The closing boundary is end-only and
// never appears here.
func (a *AvailabilityChecker) StartHours(ctx context.Context, date time.Time) ([]int, error) {
	existing, err := a.bookings.FindActiveByDate(ctx, date, nil)
	if err != nil {
		return nil, err
	}
	blocked, err := a.blocks.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	hours := make([]int, 0, a.cfg.CloseHour-a.cfg.OpenHour)
	for h := a.cfg.OpenHour; h < a.cfg.CloseHour; h++ {
		if a.isClosureHour(date, h) || hourOccupied(existing, h) || hourBlocked(blocked, h) {
			continue
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// EndHours lists the hours usable as a booking end. The rule is asymmetric to
// StartHours: an hour is invalid as an end only when some occupying range
// strictly straddles it, so back-to-back bookings share a boundary hour
// without conflict.
func (a *AvailabilityChecker) EndHours(ctx context.Context, date time.Time) ([]int, error) {
	existing, err := a.bookings.FindActiveByDate(ctx, date, nil)
	if err != nil {
		return nil, err
	}
	blocked, err := a.blocks.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	hours := make([]int, 0, a.cfg.CloseHour-a.cfg.OpenHour)
	for h := a.cfg.OpenHour + 1; h <= a.cfg.CloseHour; h++ {
		if hourStraddled(existing, h) || blockStraddled(blocked, h) {
			continue
		}
		hours = append(hours, h)
	}
	return hours, nil
}

func (a *AvailabilityChecker) isClosureHour(date time.Time, hour int) bool {
	if date.Weekday() != a.cfg.ClosureWeekday {
		return false
	}
	for _, h := range a.cfg.ClosureHours {
		if h == hour {
			return true
		}
	}
	return false
}

func hourOccupied(bookings []models.Booking, hour int) bool {
	for _, b := range bookings {
		if b.StartHour <= hour && hour < b.EndHour {
			return true
		}
	}
	return false
}

func hourBlocked(events []models.BlockedEvent, hour int) bool {
	for _, ev := range events {
		if ev.StartHour <= hour && hour < ev.EndHour {
			return true
		}
	}
	return false
}

func hourStraddled(bookings []models.Booking, hour int) bool {
	for _, b := range bookings {
		if b.StartHour < hour && hour < b.EndHour {
			return true
		}
	}
	return false
}

func blockStraddled(events []models.BlockedEvent, hour int) bool {
	for _, ev := range events {
		if ev.StartHour < hour && hour < ev.EndHour {
			return true
		}
	}
	return false
}

func intersectHours(aStart, aEnd, bStart, bEnd int) []int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	var hours []int
	for h := start; h < end; h++ {
		hours = append(hours, h)
	}
	return hours
}

func dedupeHours(hours []int) []int {
	seen := map[int]bool{}
	out := hours[:0]
	for _, h := range hours {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}
