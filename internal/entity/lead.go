package entity

import (
	"context"
	"errors"
	"time"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Statuses conhecidos. O campo aceita valor livre: um status fora
// dessa lista é persistido como veio.
const (
	StatusNew       = "New"
	StatusContacted = "Contacted"
	StatusConverted = "Converted"
	StatusLost      = "Lost"
)

var LeadStatuses = []string{StatusNew, StatusContacted, StatusConverted, StatusLost}

var ErrLeadNotFound = errors.New("lead not found")

// Value Object: ContactEntry
// Uma entrada de email ou telefone. Label e Primary são opcionais;
// nil vira null no JSON, nunca some do payload.
type ContactEntry struct {
	Value   string  `json:"value"`
	Label   *string `json:"label"`
	Primary *bool   `json:"primary"`
}

// LeadPayload é a forma canônica que sai do builder: todo campo
// opcional existe como valor ou null. Slices/maps nil serializam
// como null (distingue "não enviado" de lista vazia).
type LeadPayload struct {
	Name      *string        `json:"name"`
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Emails    []ContactEntry `json:"emails"`
	Phones    []ContactEntry `json:"phones"`
	Source    *string        `json:"source"`
	Status    *string        `json:"status"`

	JobTitle   *string `json:"job_title"`
	Department *string `json:"department"`
	Industry   *string `json:"industry"`
	Experience *string `json:"experience"`
	LinkedIn   *string `json:"linkedin"`
	Twitter    *string `json:"twitter"`
	Facebook   *string `json:"facebook"`
	Website    *string `json:"website"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`

	CompanyName        *string `json:"company_name"`
	CompanyDomain      *string `json:"company_domain"`
	CompanyWebsite     *string `json:"company_website"`
	CompanyIndustry    *string `json:"company_industry"`
	CompanySize        *string `json:"company_size"`
	CompanyRevenue     *string `json:"company_revenue"`
	CompanyFoundedYear *string `json:"company_founded_year"`
	CompanyLinkedIn    *string `json:"company_linkedin"`
	CompanyPhone       *string `json:"company_phone"`

	CustomFields map[string]*string `json:"custom_fields"`
	Tags         []string           `json:"tags"`
}

// Entidade: Lead
type Lead struct {
	ID string `json:"id"`
	LeadPayload
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	FindAll(ctx context.Context) ([]*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Insert(ctx context.Context, payload *LeadPayload) (*Lead, error)
	InsertMany(ctx context.Context, payloads []*LeadPayload) ([]*Lead, error)
	Update(ctx context.Context, id string, payload *LeadPayload) (*Lead, error)
	Delete(ctx context.Context, id string) error
}
