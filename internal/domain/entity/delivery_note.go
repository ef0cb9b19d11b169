package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decimales guardados por columna (NUMERIC de la migración). Todos los drivers redondean igual.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 3
	HoursScale    int32 = 2
)

// DeliveryNote representa un albarán: trabajo y material entregados a un cliente en un proyecto.
// Una vez firmado (Signed=true) es inmutable y no se puede borrar.
type DeliveryNote struct {
	ID           string
	OwnerUserID  string
	CompanyCIF   string
	ClientID     string
	ProjectID    string
	Description  string
	Materials    []Material
	Labor        []Labor
	TotalCost    decimal.Decimal
	Signed       bool
	SignatureURL string // "" = sin firma
	Archived     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Material línea de material del albarán.
type Material struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
}

// Subtotal cantidad × precio unitario.
func (m Material) Subtotal() decimal.Decimal {
	return m.Quantity.Mul(m.UnitPrice)
}

// Labor línea de horas de trabajo del albarán.
type Labor struct {
	Worker     string
	Hours      decimal.Decimal
	HourlyRate decimal.Decimal
}

// Subtotal horas × precio por hora.
func (l Labor) Subtotal() decimal.Decimal {
	return l.Hours.Mul(l.HourlyRate)
}

// ComputeTotal suma los subtotales de materiales y horas, redondeado a céntimos.
func (n *DeliveryNote) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, m := range n.Materials {
		total = total.Add(m.Subtotal())
	}
	for _, l := range n.Labor {
		total = total.Add(l.Subtotal())
	}
	return total.Round(MoneyScale)
}

func (n *DeliveryNote) Owner() string    { return n.OwnerUserID }
func (n *DeliveryNote) ScopeCIF() string { return n.CompanyCIF }
func (n *DeliveryNote) IsSigned() bool   { return n.Signed }
