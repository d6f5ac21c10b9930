package repository

import (
	"context"

	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
)

var applicationTable = table.MustNew("applications", "id",
	table.Col[model.Application]("job_posting_id", table.Int64).NotNull().InsertOnly().
		Get(func(a *model.Application) any { return a.JobPostingID }),
	table.Col[model.Application]("applicant_id", table.Int64).NotNull().InsertOnly().
		Get(func(a *model.Application) any { return a.ApplicantID }),
	table.Col[model.Application]("cover_letter", table.Text).
		Get(func(a *model.Application) any { return a.CoverLetter }),
	table.Col[model.Application]("resume_url", table.Text).
		Get(func(a *model.Application) any { return a.ResumeURL }),
	table.Col[model.Application]("status", table.Text).NotNull().
		Get(func(a *model.Application) any {
			if a.Status == "" {
				a.Status = model.ApplicationSubmitted
			}
			return a.Status
		}),
	table.Col[model.Application]("created_at", table.Timestamp).NotNull().InsertOnly().
		Get(func(a *model.Application) any { return stampCreated(&a.CreatedAt) }),
	table.Col[model.Application]("updated_at", table.Timestamp).NotNull().
		Get(func(a *model.Application) any { return stampUpdated(&a.UpdatedAt) }),
)

func scanApplication(row database.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(&a.ID, &a.JobPostingID, &a.ApplicantID, &a.CoverLetter,
		&a.ResumeURL, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type Applications struct {
	*dao.Accessor[model.Application, int64]
}

func NewApplications(store database.Store) *Applications {
	return &Applications{dao.New[model.Application, int64](store, applicationTable, scanApplication)}
}

func (r *Applications) Insert(ctx context.Context, a *model.Application) (int64, error) {
	if err := checkWrittenStatus(a.Status, applicationStatuses); err != nil {
		return 0, err
	}
	return r.Accessor.Insert(ctx, a)
}

func (r *Applications) Update(ctx context.Context, id int64, a *model.Application) (bool, error) {
	if err := checkWrittenStatus(a.Status, applicationStatuses); err != nil {
		return false, err
	}
	return r.Accessor.Update(ctx, id, a)
}

func (r *Applications) FindByJobPosting(ctx context.Context, jobPostingID int64) ([]model.Application, error) {
	return r.FindWhere(ctx, "job_posting_id = :jobPostingId", "jobPostingId", jobPostingID)
}

func (r *Applications) FindByApplicant(ctx context.Context, applicantID int64) ([]model.Application, error) {
	return r.FindWhere(ctx, "applicant_id = :applicantId", "applicantId", applicantID)
}

func (r *Applications) FindByApplicantAndJob(ctx context.Context, applicantID, jobPostingID int64) (*model.Application, bool, error) {
	return r.FindOneWhere(ctx, "applicant_id = :applicantId AND job_posting_id = :jobPostingId",
		"applicantId", applicantID, "jobPostingId", jobPostingID)
}

// UpdateStatus moves an application to status. It reports false when the
// application does not exist.
func (r *Applications) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	if err := checkStatus(status, applicationStatuses...); err != nil {
		return false, err
	}
	n, err := r.Exec(ctx, "UPDATE applications SET status = :status, updated_at = :at WHERE id = :id",
		"status", status, "at", now(), "id", id)
	return n > 0, err
}
