package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/metrics"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// CSV columns. project_name and github_url are required; the rest are
// optional. tech_stack and tags hold comma-joined sub-lists.
var requiredColumns = []string{"project_name", "github_url"}

var knownColumns = map[string]bool{
	"project_name":  true,
	"github_url":    true,
	"description":   true,
	"difficulty":    true,
	"mentor_github": true,
	"tech_stack":    true,
	"tags":          true,
}

// ImportService implements the CSV bulk project import. A row whose
// github_url matches an existing project is replaced when overwrite is set
// and skipped otherwise; rows that fail validation are reported in the
// errors list and count toward neither bucket.
type ImportService struct {
	projects repository.ProjectRepository
	log      logging.Logger
}

// NewImportService returns an ImportService using the given project
// repository.
func NewImportService(projects repository.ProjectRepository, log logging.Logger) *ImportService {
	return &ImportService{
		projects: projects,
		log:      log,
	}
}

// ImportProjects parses csvData and upserts each data row. The returned
// result always satisfies created+updated+skipped <= total. Row numbers in
// the errors list are 1-based from the first data row.
func (s *ImportService) ImportProjects(csvData string, overwrite bool) (*models.CsvImportResult, error) {
	if strings.TrimSpace(csvData) == "" {
		return nil, NewServiceError(CodeInvalidRequest, "csvData is required")
	}

	reader := csv.NewReader(strings.NewReader(csvData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewServiceError(CodeInvalidRequest, fmt.Sprintf("malformed CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, NewServiceError(CodeInvalidRequest, "csvData has no header row")
	}

	header, err := parseHeader(records[0])
	if err != nil {
		return nil, NewServiceError(CodeInvalidRequest, err.Error())
	}

	result := &models.CsvImportResult{Errors: []models.CsvRowError{}}
	var rowErrs *multierror.Error

	for i, record := range records[1:] {
		rowNum := i + 1
		result.Total++

		row, err := parseRow(header, record)
		if err != nil {
			result.Errors = append(result.Errors, models.CsvRowError{Row: rowNum, Error: err.Error()})
			rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}

		outcome, err := s.upsert(row, overwrite)
		if err != nil {
			result.Errors = append(result.Errors, models.CsvRowError{Row: rowNum, Error: err.Error()})
			rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}

		metrics.ImportRows.WithLabelValues(outcome).Inc()
		switch outcome {
		case "created":
			result.Created++
		case "updated":
			result.Updated++
		case "skipped":
			result.Skipped++
		}
	}

	if rowErrs != nil {
		s.log.Warnf("csv import finished with row errors: %v", rowErrs.ErrorOrNil())
	}
	s.log.Infof("csv import: total=%d created=%d updated=%d skipped=%d errors=%d",
		result.Total, result.Created, result.Updated, result.Skipped, len(result.Errors))
	return result, nil
}

// parseHeader maps column names to positions and checks the required ones
// are present. Unknown columns are rejected to catch swapped delimiters
// early.
func parseHeader(record []string) (map[string]int, error) {
	header := make(map[string]int, len(record))
	for i, name := range record {
		name = strings.ToLower(strings.TrimSpace(name))
		if !knownColumns[name] {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		header[name] = i
	}
	for _, required := range requiredColumns {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return header, nil
}

// parseRow validates one data row against the header. Difficulty outside
// the known set is coerced to intermediate rather than rejected.
func parseRow(header map[string]int, record []string) (*models.Project, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(header), len(record))
	}

	field := func(name string) string {
		if i, ok := header[name]; ok {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	name := field("project_name")
	if name == "" {
		return nil, fmt.Errorf("project_name is required")
	}
	githubURL := field("github_url")
	if githubURL == "" {
		return nil, fmt.Errorf("github_url is required")
	}

	difficulty := strings.ToLower(field("difficulty"))
	switch difficulty {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		difficulty = models.DifficultyIntermediate
	}

	return &models.Project{
		Name:         name,
		GithubURL:    githubURL,
		Description:  field("description"),
		Difficulty:   difficulty,
		MentorGithub: field("mentor_github"),
		TechStack:    splitList(field("tech_stack")),
		Tags:         splitList(field("tags")),
	}, nil
}

func (s *ImportService) upsert(row *models.Project, overwrite bool) (string, error) {
	existing, err := s.projects.GetByGithubURL(row.GithubURL)
	switch {
	case err == nil:
		if !overwrite {
			return "skipped", nil
		}
		row.ID = existing.ID
		row.Featured = existing.Featured
		if err := s.projects.Update(row); err != nil {
			return "", err
		}
		return "updated", nil
	case errors.Is(err, repository.ErrNotFound):
		row.ID = uuid.NewString()
		if err := s.projects.Create(row); err != nil {
			return "", err
		}
		return "created", nil
	default:
		// A failing duplicate check must not masquerade as a new row.
		return "", err
	}
}

// splitList turns a comma-joined sub-list into a slice, dropping blanks.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
