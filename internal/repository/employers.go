package repository

import (
	"context"
	"strings"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

var employerTable = table.MustNew("employers", "id",
	table.Col[model.Employer]("owner_id", table.Int64).NotNull().
		Get(func(e *model.Employer) any { return e.OwnerID }),
	table.Col[model.Employer]("name", table.Text).NotNull().
		Get(func(e *model.Employer) any { return e.Name }),
	table.Col[model.Employer]("description", table.Text).
		Get(func(e *model.Employer) any { return e.Description }),
	table.Col[model.Employer]("website", table.Text).
		Get(func(e *model.Employer) any { return e.Website }),
	table.Col[model.Employer]("industry_id", table.Int64).
		Get(func(e *model.Employer) any { return e.IndustryID }),
	table.Col[model.Employer]("city_id", table.Int64).
		Get(func(e *model.Employer) any { return e.CityID }),
	table.Col[model.Employer]("created_at", table.Timestamp).NotNull().InsertOnly().
		Get(func(e *model.Employer) any { return stampCreated(&e.CreatedAt) }),
	table.Col[model.Employer]("updated_at", table.Timestamp).NotNull().
		Get(func(e *model.Employer) any { return stampUpdated(&e.UpdatedAt) }),
)

func scanEmployer(row database.Row) (*model.Employer, error) {
	var e model.Employer
	err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Description, &e.Website,
		&e.IndustryID, &e.CityID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type Employers struct {
	*dao.Accessor[model.Employer, int64]
}

func NewEmployers(store database.Store) *Employers {
	return &Employers{dao.New[model.Employer, int64](store, employerTable, scanEmployer)}
}

func (r *Employers) FindByOwner(ctx context.Context, ownerID int64) ([]model.Employer, error) {
	return r.FindWhere(ctx, "owner_id = :ownerId", "ownerId", ownerID)
}

func (r *Employers) FindByIndustry(ctx context.Context, industryID int64) ([]model.Employer, error) {
	return r.FindWhere(ctx, "industry_id = :industryId", "industryId", industryID)
}

// SearchByName matches employers whose name contains fragment, ignoring case.
func (r *Employers) SearchByName(ctx context.Context, fragment string) ([]model.Employer, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
	return r.FindWhere(ctx, `LOWER(name) LIKE :pattern ESCAPE '!'`, "pattern", pattern)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
