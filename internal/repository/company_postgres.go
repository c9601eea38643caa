package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// CompanyRepository implements the domain.CompanyRepository interface using PostgreSQL
type CompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository creates a new CompanyRepository instance
func NewCompanyRepository(db *sql.DB) domain.CompanyRepository {
	return &CompanyRepository{db: db}
}

func scanCompany(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Company, error) {
	var company domain.Company
	var name, industry sql.NullString
	var icpScore sql.NullFloat64

	err := scanner.Scan(
		&company.ID,
		&company.Domain,
		&name,
		&industry,
		&icpScore,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	company.Name = name.String
	company.Industry = industry.String
	if icpScore.Valid {
		company.ICPScore = &icpScore.Float64
	}

	return &company, nil
}

// Upsert inserts by unique domain or updates the existing row
func (r *CompanyRepository) Upsert(ctx context.Context, company *domain.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}
	if company.ID == "" {
		company.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO companies (id, domain, name, industry, icp_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (domain) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), companies.name),
			industry = COALESCE(NULLIF(EXCLUDED.industry, ''), companies.industry),
			icp_score = COALESCE(EXCLUDED.icp_score, companies.icp_score),
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		company.ID,
		company.Domain,
		company.Name,
		company.Industry,
		company.ICPScore,
		now,
	).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert company: %w", err)
	}
	company.UpdatedAt = now
	return nil
}

// Get retrieves a company by ID
func (r *CompanyRepository) Get(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT id, domain, name, industry, icp_score, created_at, updated_at FROM companies WHERE id = $1`

	company, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "company", ID: id}
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// GetByDomain retrieves a company by its unique domain
func (r *CompanyRepository) GetByDomain(ctx context.Context, domainName string) (*domain.Company, error) {
	domainName = strings.ToLower(strings.TrimSpace(domainName))
	query := `SELECT id, domain, name, industry, icp_score, created_at, updated_at FROM companies WHERE domain = $1`

	company, err := scanCompany(r.db.QueryRowContext(ctx, query, domainName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "company", ID: domainName}
		}
		return nil, fmt.Errorf("failed to get company by domain: %w", err)
	}
	return company, nil
}
