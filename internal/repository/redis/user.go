// Package redis stores users as JSON documents in redis.
//
// Every user is kept under "<prefix>user:<id>" and indexed by "<prefix>email:<email>" -> id.
// Both keys are written by a single script, so the email index is the unique constraint.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
)

const DefaultPrefix = "identity:"

var errNotConnected = errors.New("redis: not connected")

// Returns 0 if user id or email already taken
var saveScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 or redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[2], ARGV[2])
return 1
`)

// Stored document. Differs from models.User: password hash has to be persisted
type userDocument struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HashedPassword string `json:"password"`
	Age            int    `json:"age"`
}

// Document-oriented user repository
type UserRepo struct {
	url    string
	prefix string
	client *redis.Client
}

func NewUserRepo(url string, prefix string) *UserRepo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &UserRepo{url: url, prefix: prefix}
}

func (r *UserRepo) Connect(ctx context.Context) error {
	opts, err := redis.ParseURL(r.url)
	if err != nil {
		return dbError(fmt.Errorf("can't parse redis url. Err: %w", err))
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return dbError(fmt.Errorf("can't ping redis. Err: %w", err))
	}

	r.client = client
	return nil
}

func (r *UserRepo) Disconnect(_ context.Context) error {
	if r.client == nil {
		return nil
	}

	err := r.client.Close()
	r.client = nil
	if err != nil {
		return dbError(err)
	}
	return nil
}

// Delete every key under repo prefix
func (r *UserRepo) Reset(ctx context.Context) error {
	if r.client == nil {
		return dbError(errNotConnected)
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return dbError(err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user models.User) error {
	if r.client == nil {
		return dbError(errNotConnected)
	}

	doc, err := json.Marshal(userDocument(user))
	if err != nil {
		return dbError(err)
	}

	keys := []string{r.userKey(user.ID), r.emailKey(user.Email)}
	saved, err := saveScript.Run(ctx, r.client, keys, doc, user.ID).Int()
	if err != nil {
		return dbError(err)
	}
	if saved == 0 {
		return apperrors.ErrUserAlreadyExists
	}

	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if r.client == nil {
		return nil, dbError(errNotConnected)
	}

	raw, err := r.client.Get(ctx, r.userKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, dbError(err)
	}

	var doc userDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, dbError(fmt.Errorf("malformed user document %s. Err: %w", id, err))
	}

	user := models.User(doc)
	return &user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.client == nil {
		return nil, dbError(errNotConnected)
	}

	id, err := r.client.Get(ctx, r.emailKey(email)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, dbError(err)
	}

	return r.FindByID(ctx, id)
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.client == nil {
		return false, dbError(errNotConnected)
	}

	n, err := r.client.Exists(ctx, r.emailKey(email)).Result()
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func (r *UserRepo) userKey(id string) string {
	return r.prefix + "user:" + id
}

func (r *UserRepo) emailKey(email string) string {
	return r.prefix + "email:" + email
}

func dbError(err error) error {
	return fmt.Errorf("%w: redis error: %w", apperrors.ErrRepository, err)
}
