package repository

import (
	"context"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

// Reference tables describe their id column so the setter-driven mapper
// can fill it, and carry a unique natural key the feeds upsert on.

var cityTable = table.MustNew("cities", "id",
	table.Col[model.City]("id", table.Int64).NotNull().ReadOnly().
		Set(func(c *model.City, v any) { c.ID = asInt64(v) }),
	table.Col[model.City]("external_id", table.Text).NotNull().
		Get(func(c *model.City) any { return c.ExternalID }).
		Set(func(c *model.City, v any) { c.ExternalID = asString(v) }),
	table.Col[model.City]("name", table.Text).NotNull().
		Get(func(c *model.City) any { return c.Name }).
		Set(func(c *model.City, v any) { c.Name = asString(v) }),
	table.Col[model.City]("region", table.Text).
		Get(func(c *model.City) any { return c.Region }).
		Set(func(c *model.City, v any) { c.Region = asOptString(v) }),
	table.Col[model.City]("country_code", table.Text).NotNull().
		Get(func(c *model.City) any { return c.CountryCode }).
		Set(func(c *model.City, v any) { c.CountryCode = asString(v) }),
	table.Col[model.City]("updated_at", table.Timestamp).NotNull().
		Get(func(c *model.City) any { return stampUpdated(&c.UpdatedAt) }).
		Set(func(c *model.City, v any) { c.UpdatedAt = asTime(v) }),
)

var industryTable = table.MustNew("industries", "id",
	table.Col[model.Industry]("id", table.Int64).NotNull().ReadOnly().
		Set(func(i *model.Industry, v any) { i.ID = asInt64(v) }),
	table.Col[model.Industry]("name", table.Text).NotNull().
		Get(func(i *model.Industry) any { return i.Name }).
		Set(func(i *model.Industry, v any) { i.Name = asString(v) }),
	table.Col[model.Industry]("description", table.Text).
		Get(func(i *model.Industry) any { return i.Description }).
		Set(func(i *model.Industry, v any) { i.Description = asOptString(v) }),
	table.Col[model.Industry]("updated_at", table.Timestamp).NotNull().
		Get(func(i *model.Industry) any { return stampUpdated(&i.UpdatedAt) }).
		Set(func(i *model.Industry, v any) { i.UpdatedAt = asTime(v) }),
)

var professionTable = table.MustNew("professions", "id",
	table.Col[model.Profession]("id", table.Int64).NotNull().ReadOnly().
		Set(func(p *model.Profession, v any) { p.ID = asInt64(v) }),
	table.Col[model.Profession]("code", table.Text).NotNull().
		Get(func(p *model.Profession) any { return p.Code }).
		Set(func(p *model.Profession, v any) { p.Code = asString(v) }),
	table.Col[model.Profession]("title", table.Text).NotNull().
		Get(func(p *model.Profession) any { return p.Title }).
		Set(func(p *model.Profession, v any) { p.Title = asString(v) }),
	table.Col[model.Profession]("industry_id", table.Int64).
		Get(func(p *model.Profession) any { return p.IndustryID }).
		Set(func(p *model.Profession, v any) { p.IndustryID = asOptInt64(v) }),
	table.Col[model.Profession]("updated_at", table.Timestamp).NotNull().
		Get(func(p *model.Profession) any { return stampUpdated(&p.UpdatedAt) }).
		Set(func(p *model.Profession, v any) { p.UpdatedAt = asTime(v) }),
)

type Cities struct {
	*dao.Accessor[model.City, int64]
	upserter *dao.Upserter[model.City, int64]
}

func NewCities(store database.Store) *Cities {
	a := dao.New[model.City, int64](store, cityTable, nil)
	return &Cities{Accessor: a, upserter: dao.MustUpserter(a, "external_id")}
}

func (r *Cities) FindByExternalID(ctx context.Context, externalID string) (*model.City, bool, error) {
	return r.FindOneWhere(ctx, "external_id = :externalId", "externalId", externalID)
}

// BatchUpsert inserts new cities and refreshes known ones by external id.
func (r *Cities) BatchUpsert(ctx context.Context, cities []model.City) (int64, error) {
	return r.upserter.Upsert(ctx, cities)
}

type Industries struct {
	*dao.Accessor[model.Industry, int64]
	upserter *dao.Upserter[model.Industry, int64]
}

func NewIndustries(store database.Store) *Industries {
	a := dao.New[model.Industry, int64](store, industryTable, nil)
	return &Industries{Accessor: a, upserter: dao.MustUpserter(a, "name", "description", "updated_at")}
}

func (r *Industries) FindByName(ctx context.Context, name string) (*model.Industry, bool, error) {
	return r.FindOneWhere(ctx, "name = :name", "name", name)
}

// BatchUpsert inserts new industries and refreshes known ones by name.
func (r *Industries) BatchUpsert(ctx context.Context, industries []model.Industry) (int64, error) {
	return r.upserter.Upsert(ctx, industries)
}

type Professions struct {
	*dao.Accessor[model.Profession, int64]
	upserter *dao.Upserter[model.Profession, int64]
}

func NewProfessions(store database.Store) *Professions {
	a := dao.New[model.Profession, int64](store, professionTable, nil)
	return &Professions{Accessor: a, upserter: dao.MustUpserter(a, "code")}
}

func (r *Professions) FindByCode(ctx context.Context, code string) (*model.Profession, bool, error) {
	return r.FindOneWhere(ctx, "code = :code", "code", code)
}

func (r *Professions) FindByIndustry(ctx context.Context, industryID int64) ([]model.Profession, error) {
	return r.FindWhere(ctx, "industry_id = :industryId", "industryId", industryID)
}

// BatchUpsert inserts new professions and refreshes known ones by code.
func (r *Professions) BatchUpsert(ctx context.Context, professions []model.Profession) (int64, error) {
	return r.upserter.Upsert(ctx, professions)
}
