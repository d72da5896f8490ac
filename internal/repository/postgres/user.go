package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/db"
	"github.com/nkiryanov/identity/internal/models"
)

var errNotConnected = errors.New("postgres: not connected")

// Relational user repository
type UserRepo struct {
	dsn  string
	pool *pgxpool.Pool

	// Pool or transaction queries are run against
	DB DBTX
}

func NewUserRepo(dsn string) *UserRepo {
	return &UserRepo{dsn: dsn}
}

// Connect to database and apply migrations
func (r *UserRepo) Connect(ctx context.Context) error {
	pool, err := db.ConnectAndMigrate(ctx, r.dsn)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrRepository, err)
	}

	r.pool = pool
	r.DB = pool
	return nil
}

func (r *UserRepo) Disconnect(_ context.Context) error {
	if r.pool != nil {
		r.pool.Close()
	}

	r.pool = nil
	r.DB = nil
	return nil
}

const resetUsers = `-- name: ResetUsers
TRUNCATE TABLE users
`

func (r *UserRepo) Reset(ctx context.Context) error {
	if r.DB == nil {
		return dbError(errNotConnected)
	}

	_, err := r.DB.Exec(ctx, resetUsers)
	if err != nil {
		return dbError(err)
	}

	return nil
}

const saveUser = `-- name: SaveUser
INSERT INTO users (id, name, email, password_hash, age)
VALUES ($1, $2, $3, $4, $5)
`

func (r *UserRepo) Save(ctx context.Context, user models.User) error {
	if r.DB == nil {
		return dbError(errNotConnected)
	}

	_, err := r.DB.Exec(ctx, saveUser, user.ID, user.Name, user.Email, user.HashedPassword, user.Age)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.ErrUserAlreadyExists
		}

		return dbError(err)
	}

	return nil
}

const findUserByID = `-- name: FindUserByID
SELECT id, name, email, password_hash, age FROM users
WHERE id = $1
`

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, findUserByID, id)
}

const findUserByEmail = `-- name: FindUserByEmail
SELECT id, name, email, password_hash, age FROM users
WHERE email = $1
`

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, findUserByEmail, email)
}

const existsUserByEmail = `-- name: ExistsUserByEmail
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
`

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.DB == nil {
		return false, dbError(errNotConnected)
	}

	rows, _ := r.DB.Query(ctx, existsUserByEmail, email)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, dbError(err)
	}

	return exists, nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	if r.DB == nil {
		return nil, dbError(errNotConnected)
	}

	rows, _ := r.DB.Query(ctx, query, arg)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	default:
		return nil, dbError(err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Age)
	return u, err
}

func dbError(err error) error {
	return fmt.Errorf("%w: db error: %w", apperrors.ErrRepository, err)
}
