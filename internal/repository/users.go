package repository

import (
	"context"
	"strings"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

var userTable = table.MustNew("users", "id",
	table.Col[model.User]("email", table.Text).NotNull().
		Get(func(u *model.User) any { return u.Email }),
	table.Col[model.User]("password_hash", table.Text).NotNull().InsertOnly().
		Get(func(u *model.User) any { return u.PasswordHash }),
	table.Col[model.User]("first_name", table.Text).NotNull().
		Get(func(u *model.User) any { return u.FirstName }),
	table.Col[model.User]("last_name", table.Text).NotNull().
		Get(func(u *model.User) any { return u.LastName }),
	table.Col[model.User]("headline", table.Text).
		Get(func(u *model.User) any { return u.Headline }),
	table.Col[model.User]("city_id", table.Int64).
		Get(func(u *model.User) any { return u.CityID }),
	table.Col[model.User]("profession_id", table.Int64).
		Get(func(u *model.User) any { return u.ProfessionID }),
	table.Col[model.User]("created_at", table.Timestamp).NotNull().InsertOnly().
		Get(func(u *model.User) any { return stampCreated(&u.CreatedAt) }),
	table.Col[model.User]("updated_at", table.Timestamp).NotNull().
		Get(func(u *model.User) any { return stampUpdated(&u.UpdatedAt) }),
)

func scanUser(row database.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Headline, &u.CityID, &u.ProfessionID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Users accesses the users table. Emails are stored lower-cased. The
// password hash is written on insert and by SetPasswordHash only, so an
// Update never clears it.
type Users struct {
	*dao.Accessor[model.User, int64]
}

func NewUsers(store database.Store) *Users {
	return &Users{dao.New[model.User, int64](store, userTable, scanUser)}
}

// Insert normalizes the email and writes u.
func (r *Users) Insert(ctx context.Context, u *model.User) (int64, error) {
	u.Email = normalizeEmail(u.Email)
	return r.Accessor.Insert(ctx, u)
}

// Update normalizes the email and writes u over the row with the given id.
func (r *Users) Update(ctx context.Context, id int64, u *model.User) (bool, error) {
	u.Email = normalizeEmail(u.Email)
	return r.Accessor.Update(ctx, id, u)
}

// SetPasswordHash replaces the stored hash of user id. It reports false
// when the user does not exist.
func (r *Users) SetPasswordHash(ctx context.Context, id int64, hash string) (bool, error) {
	n, err := r.Exec(ctx, "UPDATE users SET password_hash = :hash, updated_at = :at WHERE id = :id",
		"hash", hash, "at", now(), "id", id)
	return n > 0, err
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, bool, error) {
	return r.FindOneWhere(ctx, "email = :email", "email", normalizeEmail(email))
}

func (r *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.CountWhere(ctx, "email = :email", "email", normalizeEmail(email))
	return n > 0, err
}

func (r *Users) FindByCity(ctx context.Context, cityID int64) ([]model.User, error) {
	return r.FindWhere(ctx, "city_id = :cityId", "cityId", cityID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
