package repository

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Job{}, &model.Payment{}, &model.Application{}))
	return db
}

func seedJobs(t *testing.T, repo *JobRepository, jobs ...model.Job) {
	t.Helper()
	for i := range jobs {
		require.NoError(t, repo.CreateJob(&jobs[i]))
	}
}

func boolPtr(b bool) *bool { return &b }

func TestSearchJobsFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)
	seedJobs(t, repo,
		model.Job{Title: "Backend Engineer", Company: "Acme", Location: "Lagos", Remote: false, RecruiterEmail: "hr@acme.test"},
		model.Job{Title: "Frontend Engineer", Company: "Umbrella", Location: "Lagos", Remote: true, RecruiterEmail: "hr@umbrella.test"},
		model.Job{Title: "Data Analyst", Company: "Initech", Location: "Abuja", Remote: true, RecruiterEmail: "hr@initech.test"},
	)

	tests := []struct {
		name    string
		filters model.JobFilters
		want    []string
	}{
		{
			name:    "no filters matches everything",
			filters: model.JobFilters{},
			want:    []string{"Backend Engineer", "Frontend Engineer", "Data Analyst"},
		},
		{
			name:    "location substring is case-insensitive",
			filters: model.JobFilters{Location: "LAGOS"},
			want:    []string{"Backend Engineer", "Frontend Engineer"},
		},
		{
			name:    "title substring",
			filters: model.JobFilters{Title: "engineer"},
			want:    []string{"Backend Engineer", "Frontend Engineer"},
		},
		{
			name:    "remote flag is an exact match",
			filters: model.JobFilters{Remote: boolPtr(true)},
			want:    []string{"Frontend Engineer", "Data Analyst"},
		},
		{
			name:    "unset fields never exclude rows",
			filters: model.JobFilters{Company: "initech"},
			want:    []string{"Data Analyst"},
		},
		{
			name:    "combined filters intersect",
			filters: model.JobFilters{Location: "lagos", Remote: boolPtr(true)},
			want:    []string{"Frontend Engineer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := repo.SearchJobs(tt.filters, 5)
			require.NoError(t, err)
			titles := make([]string, 0, len(jobs))
			for _, j := range jobs {
				titles = append(titles, j.Title)
			}
			require.Equal(t, tt.want, titles)
		})
	}
}

func TestSearchJobsCap(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)
	for i := 0; i < 8; i++ {
		require.NoError(t, repo.CreateJob(&model.Job{
			Title:    fmt.Sprintf("Engineer %d", i),
			Company:  "Acme",
			Location: "Lagos",
		}))
	}

	jobs, err := repo.SearchJobs(model.JobFilters{}, 5)
	require.NoError(t, err)
	require.Len(t, jobs, 5)
}

func TestFindByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)

	_, err := repo.FindByID(42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
