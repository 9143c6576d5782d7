package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

type Project struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Input      revenue.Input `json:"input"`
	WebsiteURL string        `json:"website_url"`
	Niche      string        `json:"niche"`
	Slug       string        `json:"slug"`
	IsPublic   bool          `json:"is_public"`
	CreatedAt  time.Time     `json:"created_at"`
}

type projectRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Input      string `db:"input"`
	WebsiteURL string `db:"website_url"`
	Niche      string `db:"niche"`
	Slug       string `db:"slug"`
	IsPublic   int    `db:"is_public"`
	CreatedAt  string `db:"created_at"`
}

func (r projectRow) project() (Project, error) {
	var in revenue.Input
	if err := json.Unmarshal([]byte(r.Input), &in); err != nil {
		return Project{}, fmt.Errorf("decode project input: %w", err)
	}
	return Project{
		ID:         r.ID,
		Name:       r.Name,
		Input:      in,
		WebsiteURL: r.WebsiteURL,
		Niche:      r.Niche,
		Slug:       r.Slug,
		IsPublic:   r.IsPublic != 0,
		CreatedAt:  parseTime(r.CreatedAt),
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, joins alphanumeric runs with dashes and caps the
// result at 60 characters.
func Slugify(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

func uniqueSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "project"
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// CreateProject stores the input a project was first analyzed with. The
// project's niche is its target user guess.
func (s *Store) CreateProject(ctx context.Context, in revenue.Input) (Project, error) {
	stored := in
	stored.ScrapedWebsite = nil
	blob, err := json.Marshal(stored)
	if err != nil {
		return Project{}, fmt.Errorf("encode project input: %w", err)
	}
	row := projectRow{
		ID:         uuid.NewString(),
		Name:       in.ProductName,
		Input:      string(blob),
		WebsiteURL: in.WebsiteURL,
		Niche:      in.TargetUserGuess,
		Slug:       uniqueSlug(in.ProductName),
		CreatedAt:  s.timestamp(),
	}
	q := s.db.Rebind(`INSERT INTO projects (id, name, input, website_url, niche, slug, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, row.ID, row.Name, row.Input, row.WebsiteURL, row.Niche, row.Slug, row.IsPublic, row.CreatedAt); err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return row.project()
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	return s.getProject(ctx, "id", id)
}

func (s *Store) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return s.getProject(ctx, "slug", slug)
}

func (s *Store) getProject(ctx context.Context, column, value string) (Project, error) {
	var row projectRow
	q := s.db.Rebind(`SELECT id, name, input, website_url, niche, slug, is_public, created_at FROM projects WHERE ` + column + ` = ?`)
	if err := s.db.GetContext(ctx, &row, q, value); err != nil {
		return Project{}, notFound(err)
	}
	return row.project()
}

func (s *Store) SetProjectPublic(ctx context.Context, id string, public bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE projects SET is_public = ? WHERE id = ?`), boolInt(public), id)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
