package entity

import "time"

// Project representa una obra o proyecto asociado a un cliente.
type Project struct {
	ID          string
	OwnerUserID string
	CompanyCIF  string
	ClientID    string
	Name        string
	Description string
	Address     string
	PostalCode  string
	City        string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Project) Owner() string      { return p.OwnerUserID }
func (p *Project) ScopeCIF() string   { return p.CompanyCIF }
func (p *Project) IsArchived() bool   { return p.Archived }
func (p *Project) SetArchived(v bool) { p.Archived = v }
