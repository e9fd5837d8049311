package ai

import "github.com/jobconnect-ng/jobconnect/internal/model"

// Intent is the closed set of actions the model may return. It is validated
// at this boundary so downstream code never branches on untyped data.
type Intent interface {
	isIntent()
}

// SearchJobs asks for postings matching the given filters.
type SearchJobs struct {
	Filters model.JobFilters
}

// ApplyJob targets either one posting by id or, with ApplyAll, the full last
// search result set.
type ApplyJob struct {
	JobID    uint
	ApplyAll bool
}

// Unknown carries the model's own reply for messages it could not map to an
// action. Response is emitted to the user verbatim.
type Unknown struct {
	Response string
}

func (SearchJobs) isIntent() {}
func (ApplyJob) isIntent()   {}
func (Unknown) isIntent()    {}
