package repository

import (
	"context"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

var connectionTable = table.MustNew("connections", "id",
	table.Col[model.Connection]("requester_id", table.Int64).NotNull().InsertOnly().
		Get(func(c *model.Connection) any { return c.RequesterID }),
	table.Col[model.Connection]("addressee_id", table.Int64).NotNull().InsertOnly().
		Get(func(c *model.Connection) any { return c.AddresseeID }),
	table.Col[model.Connection]("status", table.Text).NotNull().
		Get(func(c *model.Connection) any {
			if c.Status == "" {
				c.Status = model.ConnectionPending
			}
			return c.Status
		}),
	table.Col[model.Connection]("created_at", table.Timestamp).NotNull().InsertOnly().
		Get(func(c *model.Connection) any { return stampCreated(&c.CreatedAt) }),
	table.Col[model.Connection]("updated_at", table.Timestamp).NotNull().
		Get(func(c *model.Connection) any { return stampUpdated(&c.UpdatedAt) }),
)

func scanConnection(row database.Row) (*model.Connection, error) {
	var c model.Connection
	err := row.Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type Connections struct {
	*dao.Accessor[model.Connection, int64]
}

func NewConnections(store database.Store) *Connections {
	return &Connections{dao.New[model.Connection, int64](store, connectionTable, scanConnection)}
}

// Insert rejects a user connecting to themselves before writing c.
func (r *Connections) Insert(ctx context.Context, c *model.Connection) (int64, error) {
	if c.RequesterID == c.AddresseeID {
		return 0, errs.New(errs.ErrKindInvalidInput, "a user cannot connect to themselves")
	}
	if err := checkWrittenStatus(c.Status, connectionStatuses); err != nil {
		return 0, err
	}
	return r.Accessor.Insert(ctx, c)
}

func (r *Connections) Update(ctx context.Context, id int64, c *model.Connection) (bool, error) {
	if err := checkWrittenStatus(c.Status, connectionStatuses); err != nil {
		return false, err
	}
	return r.Accessor.Update(ctx, id, c)
}

// FindForUser returns every connection the user is part of, on either side.
func (r *Connections) FindForUser(ctx context.Context, userID int64) ([]model.Connection, error) {
	return r.FindWhere(ctx, "requester_id = :userId OR addressee_id = :userId", "userId", userID)
}

// FindBetween returns the connection between two users, whichever asked.
func (r *Connections) FindBetween(ctx context.Context, a, b int64) (*model.Connection, bool, error) {
	return r.FindOneWhere(ctx,
		"(requester_id = :a AND addressee_id = :b) OR (requester_id = :b AND addressee_id = :a)",
		"a", a, "b", b)
}

// FindPendingFor returns the requests waiting for userID's answer.
func (r *Connections) FindPendingFor(ctx context.Context, userID int64) ([]model.Connection, error) {
	return r.FindWhere(ctx, "addressee_id = :userId AND status = :status",
		"userId", userID, "status", model.ConnectionPending)
}

func (r *Connections) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	if err := checkStatus(status, connectionStatuses...); err != nil {
		return false, err
	}
	n, err := r.Exec(ctx, "UPDATE connections SET status = :status, updated_at = :at WHERE id = :id",
		"status", status, "at", now(), "id", id)
	return n > 0, err
}
