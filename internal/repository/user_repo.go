package repository

import (
	"database/sql"
	stderrors "errors"
	"fmt"

	"rentaride/internal/db"
	"rentaride/internal/errors"
)

type UserRepository interface {
	GetByID(id int) (*db.User, error)
	UpdateRole(id int, role string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	query := `SELECT id, name, email, phone, role, image, created_at FROM users WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Image, &u.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found")
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepository) UpdateRole(id int, role string) error {
	result, err := r.db.Exec(`UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("error updating role for user %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFound("user not found")
	}
	return nil
}
