package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// fakeProjectRepo keeps projects in memory keyed by github_url.
type fakeProjectRepo struct {
	byURL   map[string]*models.Project
	creates int
	updates int
	// lookupErr simulates a failing duplicate check.
	lookupErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{byURL: make(map[string]*models.Project)}
}

func (f *fakeProjectRepo) Create(p *models.Project) error {
	if _, ok := f.byURL[p.GithubURL]; ok {
		return fmt.Errorf("duplicate github_url %s", p.GithubURL)
	}
	cp := *p
	f.byURL[p.GithubURL] = &cp
	f.creates++
	return nil
}

func (f *fakeProjectRepo) GetByID(id string) (*models.Project, error) {
	for _, p := range f.byURL {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("project %s %w", id, repository.ErrNotFound)
}

func (f *fakeProjectRepo) GetByGithubURL(url string) (*models.Project, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	p, ok := f.byURL[url]
	if !ok {
		return nil, fmt.Errorf("project with url %s %w", url, repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) Update(p *models.Project) error {
	cp := *p
	f.byURL[p.GithubURL] = &cp
	f.updates++
	return nil
}

func (f *fakeProjectRepo) List(q models.ProjectQuery) ([]*models.Project, int, error) {
	out := make([]*models.Project, 0, len(f.byURL))
	for _, p := range f.byURL {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProjectRepo) Featured() ([]*models.Project, error) { return nil, nil }

func (f *fakeProjectRepo) Filters() (*models.ProjectFilters, error) {
	return &models.ProjectFilters{}, nil
}

func (f *fakeProjectRepo) ByMentor(mentorGithub string) ([]*models.Project, error) {
	return nil, nil
}

func (f *fakeProjectRepo) MarkSynced(id string, at time.Time) error { return nil }

const validCSV = `project_name,github_url,description,difficulty,tech_stack,tags
Aurora,https://github.com/dsc/aurora,Dashboard,beginner,"go,react","web,ui"
Borealis,https://github.com/dsc/borealis,CLI toolkit,advanced,go,tooling
`

func TestImportProjectsCreatesRows(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewImportService(repo, logging.NewNop())

	result, err := svc.ImportProjects(validCSV, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	p, err := repo.GetByGithubURL("https://github.com/dsc/aurora")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Aurora", p.Name)
	assert.Equal(t, models.DifficultyBeginner, p.Difficulty)
	assert.Equal(t, []string{"go", "react"}, p.TechStack)
	assert.Equal(t, []string{"web", "ui"}, p.Tags)
}

func TestImportProjectsSkipsExistingWithoutOverwrite(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewImportService(repo, logging.NewNop())

	_, err := svc.ImportProjects(validCSV, false)
	require.NoError(t, err)

	result, err := svc.ImportProjects(validCSV, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 2, repo.creates, "re-import must not create duplicates")
}

func TestImportProjectsOverwritePreservesIDAndFeatured(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewImportService(repo, logging.NewNop())

	_, err := svc.ImportProjects(validCSV, false)
	require.NoError(t, err)

	original, err := repo.GetByGithubURL("https://github.com/dsc/aurora")
	require.NoError(t, err)
	original.Featured = true
	require.NoError(t, repo.Update(original))

	updatedCSV := `project_name,github_url,description
Aurora Reborn,https://github.com/dsc/aurora,New description
`
	result, err := svc.ImportProjects(updatedCSV, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	after, err := repo.GetByGithubURL("https://github.com/dsc/aurora")
	require.NoError(t, err)
	assert.Equal(t, original.ID, after.ID, "overwrite must keep the project id")
	assert.True(t, after.Featured, "overwrite must keep the featured flag")
	assert.Equal(t, "Aurora Reborn", after.Name)
}

func TestImportProjectsFailedLookupDoesNotCreate(t *testing.T) {
	repo := newFakeProjectRepo()
	repo.lookupErr = fmt.Errorf("connection reset by peer")
	svc := NewImportService(repo, logging.NewNop())

	result, err := svc.ImportProjects(validCSV, false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, repo.creates, "a failing duplicate check must not insert")
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error, "connection reset")
}

func TestImportProjectsReportsRowErrors(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewImportService(repo, logging.NewNop())

	csvData := `project_name,github_url
Good,https://github.com/dsc/good
,https://github.com/dsc/missing-name
NoURL,
Short
`
	result, err := svc.ImportProjects(csvData, false)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error, "project_name")
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Error, "github_url")
	assert.Equal(t, 4, result.Errors[2].Row)
	assert.Contains(t, result.Errors[2].Error, "columns")
}

func TestImportProjectsCoercesUnknownDifficulty(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewImportService(repo, logging.NewNop())

	csvData := `project_name,github_url,difficulty
Nova,https://github.com/dsc/nova,impossible
`
	result, err := svc.ImportProjects(csvData, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	p, err := repo.GetByGithubURL("https://github.com/dsc/nova")
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyIntermediate, p.Difficulty)
}

func TestImportProjectsRejectsBadInput(t *testing.T) {
	svc := NewImportService(newFakeProjectRepo(), logging.NewNop())

	cases := []struct {
		name    string
		csvData string
	}{
		{"empty", "   \n  "},
		{"unknown column", "project_name,github_url,sponsor\n"},
		{"missing required column", "project_name,description\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ImportProjects(tc.csvData, false)
			require.Error(t, err)
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, CodeInvalidRequest, svcErr.Code)
		})
	}
}
