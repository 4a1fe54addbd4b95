package service

import (
	"fmt"
	"log"
)

// JobStore is the slice of the store the background jobs need.
type JobStore interface {
	GetConfirmedIDsPastReturn() ([]int, error)
	GetPendingIDsForRemovedCars() ([]int, error)
	UpdateBookingStatuses(ids []int, newStatus string) error
}

type JobService struct {
	Repo JobStore
}

func NewJobService(repo JobStore) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedBookings marks confirmed bookings past their return date as
// completed.
func (s *JobService) CompleteFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	ids, err := s.Repo.GetConfirmedIDsPastReturn()
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed bookings past return date: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their return date.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	return nil
}

// CancelOrphanedBookings cancels pending bookings whose car has been removed
// from the marketplace. A removed car keeps its record but loses its owner, so
// nobody is left who could ever confirm these.
func (s *JobService) CancelOrphanedBookings() error {
	log.Println("Cron Job: Checking for pending bookings on removed cars...")

	ids, err := s.Repo.GetPendingIDsForRemovedCars()
	if err != nil {
		return fmt.Errorf("cron job: failed to get pending bookings on removed cars: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Printf("Cron Job: Cancelling %d orphaned bookings. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, StatusCancelled); err != nil {
		return fmt.Errorf("cron job: failed to cancel orphaned bookings: %w", err)
	}
	return nil
}
