// Package model holds the job board's entities. Nullable columns are
// pointers; timestamps are stored in UTC.
package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Headline     *string   `json:"headline,omitempty"`
	CityID       *int64    `json:"city_id,omitempty"`
	ProfessionID *int64    `json:"profession_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Employer struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Website     *string   `json:"website,omitempty"`
	IndustryID  *int64    `json:"industry_id,omitempty"`
	CityID      *int64    `json:"city_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Job posting statuses.
const (
	PostingDraft  = "draft"
	PostingOpen   = "open"
	PostingClosed = "closed"
)

// Employment types.
const (
	FullTime   = "full_time"
	PartTime   = "part_time"
	Contract   = "contract"
	Internship = "internship"
)

type JobPosting struct {
	ID             int64      `json:"id"`
	EmployerID     int64      `json:"employer_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CityID         *int64     `json:"city_id,omitempty"`
	ProfessionID   *int64     `json:"profession_id,omitempty"`
	EmploymentType string     `json:"employment_type"`
	SalaryMin      *float64   `json:"salary_min,omitempty"`
	SalaryMax      *float64   `json:"salary_max,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Application statuses.
const (
	ApplicationSubmitted = "submitted"
	ApplicationReviewed  = "reviewed"
	ApplicationRejected  = "rejected"
	ApplicationAccepted  = "accepted"
	ApplicationWithdrawn = "withdrawn"
)

type Application struct {
	ID           int64     `json:"id"`
	JobPostingID int64     `json:"job_posting_id"`
	ApplicantID  int64     `json:"applicant_id"`
	CoverLetter  *string   `json:"cover_letter,omitempty"`
	ResumeURL    *string   `json:"resume_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Connection statuses.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// Connection links two users. RequesterID asked, AddresseeID answers.
type Connection struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	AddresseeID int64     `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// City is reference data keyed by the feed's ExternalID.
type City struct {
	ID          int64     `json:"id"`
	ExternalID  string    `json:"external_id"`
	Name        string    `json:"name"`
	Region      *string   `json:"region,omitempty"`
	CountryCode string    `json:"country_code"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Industry is reference data keyed by Name.
type Industry struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profession is reference data keyed by Code.
type Profession struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	IndustryID *int64    `json:"industry_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
