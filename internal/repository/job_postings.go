package repository

import (
	"context"
	"time"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

var jobPostingTable = table.MustNew("job_postings", "id",
	table.Col[model.JobPosting]("employer_id", table.Int64).NotNull().InsertOnly().
		Get(func(p *model.JobPosting) any { return p.EmployerID }),
	table.Col[model.JobPosting]("title", table.Text).NotNull().
		Get(func(p *model.JobPosting) any { return p.Title }),
	table.Col[model.JobPosting]("description", table.Text).NotNull().
		Get(func(p *model.JobPosting) any { return p.Description }),
	table.Col[model.JobPosting]("city_id", table.Int64).
		Get(func(p *model.JobPosting) any { return p.CityID }),
	table.Col[model.JobPosting]("profession_id", table.Int64).
		Get(func(p *model.JobPosting) any { return p.ProfessionID }),
	table.Col[model.JobPosting]("employment_type", table.Text).NotNull().
		Get(func(p *model.JobPosting) any { return p.EmploymentType }),
	table.Col[model.JobPosting]("salary_min", table.Decimal).
		Get(func(p *model.JobPosting) any { return p.SalaryMin }),
	table.Col[model.JobPosting]("salary_max", table.Decimal).
		Get(func(p *model.JobPosting) any { return p.SalaryMax }),
	table.Col[model.JobPosting]("status", table.Text).NotNull().
		Get(func(p *model.JobPosting) any {
			if p.Status == "" {
				p.Status = model.PostingDraft
			}
			return p.Status
		}),
	table.Col[model.JobPosting]("expires_at", table.Timestamp).
		Get(func(p *model.JobPosting) any { return p.ExpiresAt }),
	table.Col[model.JobPosting]("created_at", table.Timestamp).NotNull().InsertOnly().
		Get(func(p *model.JobPosting) any { return stampCreated(&p.CreatedAt) }),
	table.Col[model.JobPosting]("updated_at", table.Timestamp).NotNull().
		Get(func(p *model.JobPosting) any { return stampUpdated(&p.UpdatedAt) }),
)

func scanJobPosting(row database.Row) (*model.JobPosting, error) {
	var p model.JobPosting
	err := row.Scan(&p.ID, &p.EmployerID, &p.Title, &p.Description, &p.CityID,
		&p.ProfessionID, &p.EmploymentType, &p.SalaryMin, &p.SalaryMax, &p.Status,
		&p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// JobPostings accesses the job_postings table. A posting never moves to
// another employer, so employer_id is written on insert only.
type JobPostings struct {
	*dao.Accessor[model.JobPosting, int64]
}

func NewJobPostings(store database.Store) *JobPostings {
	return &JobPostings{dao.New[model.JobPosting, int64](store, jobPostingTable, scanJobPosting)}
}

func (r *JobPostings) Insert(ctx context.Context, p *model.JobPosting) (int64, error) {
	if err := checkWrittenStatus(p.Status, postingStatuses); err != nil {
		return 0, err
	}
	return r.Accessor.Insert(ctx, p)
}

func (r *JobPostings) Update(ctx context.Context, id int64, p *model.JobPosting) (bool, error) {
	if err := checkWrittenStatus(p.Status, postingStatuses); err != nil {
		return false, err
	}
	return r.Accessor.Update(ctx, id, p)
}

func (r *JobPostings) FindByEmployer(ctx context.Context, employerID int64) ([]model.JobPosting, error) {
	return r.FindWhere(ctx, "employer_id = :employerId", "employerId", employerID)
}

func (r *JobPostings) FindByStatus(ctx context.Context, status string) ([]model.JobPosting, error) {
	if err := checkStatus(status, postingStatuses...); err != nil {
		return nil, err
	}
	return r.FindWhere(ctx, "status = :status", "status", status)
}

func (r *JobPostings) FindOpenByCity(ctx context.Context, cityID int64) ([]model.JobPosting, error) {
	return r.FindWhere(ctx, "city_id = :cityId AND status = :status",
		"cityId", cityID, "status", model.PostingOpen)
}

func (r *JobPostings) CountByStatus(ctx context.Context, status string) (int64, error) {
	if err := checkStatus(status, postingStatuses...); err != nil {
		return 0, err
	}
	return r.CountWhere(ctx, "status = :status", "status", status)
}

// CloseExpired closes every open posting whose expiry is before at and
// returns how many were closed.
func (r *JobPostings) CloseExpired(ctx context.Context, at time.Time) (int64, error) {
	at = at.UTC()
	return r.Exec(ctx,
		`UPDATE job_postings SET status = :closed, updated_at = :at
		 WHERE status = :open AND expires_at IS NOT NULL AND expires_at < :at`,
		"closed", model.PostingClosed, "open", model.PostingOpen, "at", at)
}
