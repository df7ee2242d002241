package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/xavierca1/leadstack/internal/entity"
)

// Gateway fino sobre a tabela leads do Postgres gerenciado. Nada de
// cache nem retry: todo read vai no banco, todo erro sobe como veio.
// Listas e mapas (emails, phones, tags, custom_fields) vivem em
// colunas jsonb; coluna NULL volta como slice/map nil.

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, first_name, last_name, emails, phones, source, status,
	job_title, department, industry, experience,
	linkedin, twitter, facebook, website, city, state, country,
	company_name, company_domain, company_website, company_industry,
	company_size, company_revenue, company_founded_year,
	company_linkedin, company_phone,
	custom_fields, tags, created_at, updated_at`

const insertLeadQuery = `
	INSERT INTO leads (
		id, name, first_name, last_name, emails, phones, source, status,
		job_title, department, industry, experience,
		linkedin, twitter, facebook, website, city, state, country,
		company_name, company_domain, company_website, company_industry,
		company_size, company_revenue, company_founded_year,
		company_linkedin, company_phone,
		custom_fields, tags
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8,
		$9, $10, $11, $12,
		$13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23,
		$24, $25, $26,
		$27, $28,
		$29, $30
	)
	RETURNING created_at, updated_at`

const updateLeadQuery = `
	UPDATE leads SET
		name = $2, first_name = $3, last_name = $4, emails = $5,
		phones = $6, source = $7, status = $8,
		job_title = $9, department = $10, industry = $11, experience = $12,
		linkedin = $13, twitter = $14, facebook = $15, website = $16,
		city = $17, state = $18, country = $19,
		company_name = $20, company_domain = $21, company_website = $22,
		company_industry = $23, company_size = $24, company_revenue = $25,
		company_founded_year = $26, company_linkedin = $27, company_phone = $28,
		custom_fields = $29, tags = $30,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at`

func (r *LeadRepository) FindAll(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	return lead, nil
}

func (r *LeadRepository) Insert(ctx context.Context, payload *entity.LeadPayload) (*entity.Lead, error) {
	return insertOne(ctx, r.DB, payload)
}

// InsertMany grava o lote numa transação única: ou entram todos, ou
// nenhum.
func (r *LeadRepository) InsertMany(ctx context.Context, payloads []*entity.LeadPayload) ([]*entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	leads := make([]*entity.Lead, 0, len(payloads))
	for _, payload := range payloads {
		lead, err := insertOne(ctx, tx, payload)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, payload *entity.LeadPayload) (*entity.Lead, error) {
	args, err := payloadArgs(id, payload)
	if err != nil {
		return nil, err
	}

	lead := &entity.Lead{ID: id, LeadPayload: *payload}
	err = r.DB.QueryRowContext(ctx, updateLeadQuery, args...).
		Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	return lead, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	// O banco não reclama de DELETE sem linha; aqui a ausência sobe
	// como erro genérico (nunca foi mapeada para 404 nesse caminho).
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no rows deleted for id %s", id)
	}

	return nil
}

// execer cobre *sql.DB e *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertOne(ctx context.Context, db execer, payload *entity.LeadPayload) (*entity.Lead, error) {
	id := uuid.New().String()

	args, err := payloadArgs(id, payload)
	if err != nil {
		return nil, err
	}

	lead := &entity.Lead{ID: id, LeadPayload: *payload}
	err = db.QueryRowContext(ctx, insertLeadQuery, args...).
		Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return lead, nil
}

func payloadArgs(id string, p *entity.LeadPayload) ([]any, error) {
	emails, err := jsonbOrNull(p.Emails == nil, p.Emails)
	if err != nil {
		return nil, err
	}
	phones, err := jsonbOrNull(p.Phones == nil, p.Phones)
	if err != nil {
		return nil, err
	}
	customFields, err := jsonbOrNull(p.CustomFields == nil, p.CustomFields)
	if err != nil {
		return nil, err
	}
	tags, err := jsonbOrNull(p.Tags == nil, p.Tags)
	if err != nil {
		return nil, err
	}

	return []any{
		id, p.Name, p.FirstName, p.LastName, emails, phones, p.Source, p.Status,
		p.JobTitle, p.Department, p.Industry, p.Experience,
		p.LinkedIn, p.Twitter, p.Facebook, p.Website, p.City, p.State, p.Country,
		p.CompanyName, p.CompanyDomain, p.CompanyWebsite, p.CompanyIndustry,
		p.CompanySize, p.CompanyRevenue, p.CompanyFoundedYear,
		p.CompanyLinkedIn, p.CompanyPhone,
		customFields, tags,
	}, nil
}

// string em vez de []byte: o driver mandaria []byte como bytea e o
// cast para jsonb falharia.
func jsonbOrNull(isNil bool, v any) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	lead := &entity.Lead{}
	var emails, phones, customFields, tags []byte

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.FirstName, &lead.LastName,
		&emails, &phones, &lead.Source, &lead.Status,
		&lead.JobTitle, &lead.Department, &lead.Industry, &lead.Experience,
		&lead.LinkedIn, &lead.Twitter, &lead.Facebook, &lead.Website,
		&lead.City, &lead.State, &lead.Country,
		&lead.CompanyName, &lead.CompanyDomain, &lead.CompanyWebsite,
		&lead.CompanyIndustry, &lead.CompanySize, &lead.CompanyRevenue,
		&lead.CompanyFoundedYear, &lead.CompanyLinkedIn, &lead.CompanyPhone,
		&customFields, &tags,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if emails != nil {
		if err := json.Unmarshal(emails, &lead.Emails); err != nil {
			return nil, err
		}
	}
	if phones != nil {
		if err := json.Unmarshal(phones, &lead.Phones); err != nil {
			return nil, err
		}
	}
	if customFields != nil {
		if err := json.Unmarshal(customFields, &lead.CustomFields); err != nil {
			return nil, err
		}
	}
	if tags != nil {
		if err := json.Unmarshal(tags, &lead.Tags); err != nil {
			return nil, err
		}
	}

	return lead, nil
}
