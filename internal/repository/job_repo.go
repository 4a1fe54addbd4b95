package repository

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetConfirmedIDsPastReturn finds confirmed bookings whose return date has passed.
func (r *JobRepository) GetConfirmedIDsPastReturn() ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = 'confirmed' AND return_date < CURRENT_DATE`
	return r.collectIDs(query)
}

// GetPendingIDsForRemovedCars finds pending bookings whose car has been
// soft-deleted (owner cleared).
func (r *JobRepository) GetPendingIDsForRemovedCars() ([]int, error) {
	query := `
		SELECT b.id FROM bookings b
		JOIN cars c ON b.car_id = c.id
		WHERE b.status = 'pending' AND c.owner_id IS NULL`
	return r.collectIDs(query)
}

func (r *JobRepository) collectIDs(query string) ([]int, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying booking IDs: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}
