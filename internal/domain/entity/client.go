package entity

import "time"

// Client representa un cliente del usuario o de su empresa.
// El CIF es único en todo el sistema, sin importar el propietario.
type Client struct {
	ID          string
	OwnerUserID string
	CompanyCIF  string // "" = sin empresa
	Name        string
	CIF         string
	Email       string
	Phone       string
	Address     string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Owner implementa access.Owned.
func (c *Client) Owner() string { return c.OwnerUserID }

// ScopeCIF implementa access.Owned.
func (c *Client) ScopeCIF() string { return c.CompanyCIF }

// IsArchived implementa lifecycle.Archivable.
func (c *Client) IsArchived() bool { return c.Archived }

// SetArchived implementa lifecycle.Archivable.
func (c *Client) SetArchived(v bool) { c.Archived = v }
