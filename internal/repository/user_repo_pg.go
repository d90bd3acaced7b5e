package repository

import (
	"context"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateNames(ctx context.Context, id int64, firstName, lastName string) (*domain.User, error)
	SetPhotoKey(ctx context.Context, id int64, key string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, is_staff, is_active, photo_key, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsStaff, &u.IsActive, &u.PhotoKey, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.QueryRow(ctx, `INSERT INTO users (first_name, last_name, email, password_hash, is_staff, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.IsStaff, user.IsActive).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *PGUserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PGUserRepository) UpdateNames(ctx context.Context, id int64, firstName, lastName string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `UPDATE users SET first_name=$1, last_name=$2 WHERE id=$3 RETURNING `+userColumns, firstName, lastName, id))
}

func (r *PGUserRepository) SetPhotoKey(ctx context.Context, id int64, key string) error {
	res, err := r.db.Exec(ctx, `UPDATE users SET photo_key=$1 WHERE id=$2`, key, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

var _ UserRepository = (*PGUserRepository)(nil)
