package repo

import (
	"context"

	"github.com/crucial707/hrms/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	db DBTX
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, organisation_id, created_at`

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, orgID int) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, organisation_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, name, email, passwordHash, orgID))
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.OrganisationID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
