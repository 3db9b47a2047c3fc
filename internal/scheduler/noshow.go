package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/service"
)

// StartNoShowSweep runs the periodic sweep that turns past-due pending
// bookings into no-shows. The sweep also runs inline before availability
// checks; this job keeps the table clean between requests.
func StartNoShowSweep(svc service.ReservationService, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			swept, err := svc.SweepNoShows(context.Background())
			if err != nil {
				log.Printf("[Scheduler] no-show sweep failed: %v", err)
				return
			}
			if swept > 0 {
				log.Printf("[Scheduler] no-show sweep marked %d booking(s)", swept)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
