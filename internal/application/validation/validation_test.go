package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
)

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Messages
}

func TestID_FormatoInvalidoFallaRapido(t *testing.T) {
	msgs := validationMessages(t, validation.ID("id", "invalidid123"))
	assert.Equal(t, []string{"id: identificador inválido"}, msgs)

	assert.NoError(t, validation.ID("id", "7b0c1f7e-3c2a-4a4e-9a53-1d7f3f0f2c11"))
}

func TestID_FormasNoCanonicasSeRechazan(t *testing.T) {
	for _, v := range []string{
		"urn:uuid:7b0c1f7e-3c2a-4a4e-9a53-1d7f3f0f2c11",
		"{7b0c1f7e-3c2a-4a4e-9a53-1d7f3f0f2c11}",
		"7B0C1F7E-3C2A-4A4E-9A53-1D7F3F0F2C11",
		"7b0c1f7e3c2a4a4e9a531d7f3f0f2c11",
	} {
		msgs := validationMessages(t, validation.ID("id", v))
		assert.Equal(t, []string{"id: identificador inválido"}, msgs, v)
	}
}

func TestIDs_AcumulaErrores(t *testing.T) {
	msgs := validationMessages(t, validation.IDs("client_id", "x", "project_id", "y"))
	assert.Len(t, msgs, 2)
}

func TestStruct_ClienteSinCamposObligatorios(t *testing.T) {
	msgs := validationMessages(t, validation.Struct(dto.CreateClientRequest{Email: "no-es-email"}))
	assert.Contains(t, msgs, "name es obligatorio")
	assert.Contains(t, msgs, "cif es obligatorio")
	assert.Contains(t, msgs, "email: email inválido")
}

func TestStruct_ActualizacionParcial(t *testing.T) {
	empty := ""
	msgs := validationMessages(t, validation.Struct(dto.UpdateClientRequest{Name: &empty}))
	assert.Equal(t, []string{"name no puede estar vacío"}, msgs)

	assert.NoError(t, validation.Struct(dto.UpdateClientRequest{}), "sin campos no hay nada que validar")
}

func TestStruct_ImportesNegativos(t *testing.T) {
	in := dto.CreateDeliveryNoteRequest{
		ClientID:  "c",
		ProjectID: "p",
		Materials: []dto.MaterialDTO{{Description: "Cemento", Quantity: decimal.NewFromInt(-1), UnitPrice: decimal.NewFromInt(3)}},
		Labor:     []dto.LaborDTO{{Worker: "Ana", Hours: decimal.NewFromInt(2), HourlyRate: decimal.NewFromInt(-20)}},
	}
	msgs := validationMessages(t, validation.Struct(in))
	assert.Contains(t, msgs, "materials[0].quantity debe ser mayor o igual que 0")
	assert.Contains(t, msgs, "labor[0].hourly_rate debe ser mayor o igual que 0")
}

func TestStruct_EmpresaCIFDeNueveCaracteres(t *testing.T) {
	in := dto.CompanyDTO{Name: "Acme", CIF: "B123", Street: "Mayor", Number: "3", Postal: "28001", City: "Madrid", Province: "Madrid"}
	msgs := validationMessages(t, validation.Struct(in))
	assert.Equal(t, []string{"cif debe tener 9 caracteres"}, msgs)
}

func TestStruct_CodigoVerificacion(t *testing.T) {
	assert.NoError(t, validation.Struct(dto.VerifyEmailRequest{Code: "123456"}))
	assert.Error(t, validation.Struct(dto.VerifyEmailRequest{Code: "12a456"}))
	assert.Error(t, validation.Struct(dto.VerifyEmailRequest{Code: "12345"}))
}

func TestImage(t *testing.T) {
	assert.NoError(t, validation.Image("signature", 10, "image/png"))
	assert.Error(t, validation.Image("signature", 0, "image/png"))
	assert.Error(t, validation.Image("signature", 10, "application/pdf"))
}
