package repositories

import (
	"database/sql"
	"errors"

	intconfig "ferryapp/internal/config"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail returns the user plus its password hash for login checks.
func (r UserRepository) GetByEmail(email string) (models.User, string, error) {
	var u models.User
	var hash string
	err := r.db().QueryRow(`
		SELECT id, name, email, COALESCE(phone,''), password_hash, role, status
		FROM users WHERE email=? LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, "", err
	}
	return u, hash, nil
}

func (r UserRepository) Create(u models.User, passwordHash string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES (?,?,?,?,?,?)`,
		u.Name, u.Email, u.Phone, passwordHash, u.Role, u.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
