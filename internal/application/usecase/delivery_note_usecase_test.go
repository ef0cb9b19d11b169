package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) mustNote(t *testing.T, id access.Identity) *dto.DeliveryNoteResponse {
	t.Helper()
	c := f.mustClient(t, id, "Obras Norte", "A11111111")
	p := f.mustProject(t, id, c.ID, "Reforma local")
	n, err := f.noteUC.Create(context.Background(), id, dto.CreateDeliveryNoteRequest{
		ClientID:    c.ID,
		ProjectID:   p.ID,
		Description: "Semana 12",
		Materials:   []dto.MaterialDTO{{Description: "Cemento", Quantity: dec("10"), Unit: "saco", UnitPrice: dec("4.50")}},
		Labor:       []dto.LaborDTO{{Worker: "Juan", Hours: dec("8"), HourlyRate: dec("20")}},
	})
	require.NoError(t, err)
	return n
}

func TestDeliveryNoteCreate_TotalCalculado(t *testing.T) {
	f := newFixture()
	n := f.mustNote(t, alice)

	assert.True(t, dec("205").Equal(n.TotalCost), "10×4.50 + 8×20 = 205, got %s", n.TotalCost)
	assert.False(t, n.Signed)
	assert.Nil(t, n.SignatureURL)
	require.NotNil(t, n.CompanyCIF)
	assert.Equal(t, cifAcme, *n.CompanyCIF)
}

func TestDeliveryNoteCreate_TotalExplicito(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")
	total := dec("99.99")

	n, err := f.noteUC.Create(ctx, alice, dto.CreateDeliveryNoteRequest{ClientID: c.ID, ProjectID: p.ID, TotalCost: &total})
	require.NoError(t, err)
	assert.True(t, total.Equal(n.TotalCost))
}

func TestDeliveryNoteCreate_ImportesRedondeadosACentimos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")

	n, err := f.noteUC.Create(ctx, alice, dto.CreateDeliveryNoteRequest{
		ClientID:  c.ID,
		ProjectID: p.ID,
		Materials: []dto.MaterialDTO{{Description: "Tornillos", Quantity: dec("3.33339"), Unit: "kg", UnitPrice: dec("0.3349")}},
		Labor:     []dto.LaborDTO{{Worker: "Juan", Hours: dec("1.005"), HourlyRate: dec("10.005")}},
	})
	require.NoError(t, err)
	require.Len(t, n.Materials, 1)
	require.Len(t, n.Labor, 1)
	assert.Equal(t, "3.333", n.Materials[0].Quantity.String())
	assert.Equal(t, "0.33", n.Materials[0].UnitPrice.String())
	assert.Equal(t, "1.01", n.Labor[0].Hours.String())
	assert.Equal(t, "10.01", n.Labor[0].HourlyRate.String())
	// 3.333×0.33 + 1.01×10.01 = 1.09989 + 10.1101 = 11.20999
	assert.Equal(t, "11.21", n.TotalCost.String())

	got, err := f.noteUC.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.True(t, n.TotalCost.Equal(got.TotalCost), "lo guardado coincide con lo devuelto")

	total := dec("99.999")
	n, err = f.noteUC.Create(ctx, alice, dto.CreateDeliveryNoteRequest{ClientID: c.ID, ProjectID: p.ID, TotalCost: &total})
	require.NoError(t, err)
	assert.Equal(t, "100", n.TotalCost.String())
}

func TestDeliveryNoteCreate_ReferenciasFueraDeAlcance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine := f.mustClient(t, alice, "Obras Norte", "A11111111")
	myProject := f.mustProject(t, alice, mine.ID, "Reforma local")
	other := f.mustClient(t, alice, "Otro cliente", "A55555555")
	foreign := f.mustClient(t, carol, "Ajeno", "A22222222")
	foreignProject := f.mustProject(t, carol, foreign.ID, "Ajena")

	cases := map[string]dto.CreateDeliveryNoteRequest{
		"cliente ajeno":            {ClientID: foreign.ID, ProjectID: myProject.ID},
		"proyecto ajeno":           {ClientID: mine.ID, ProjectID: foreignProject.ID},
		"proyecto de otro cliente": {ClientID: other.ID, ProjectID: myProject.ID},
		"proyecto inexistente":     {ClientID: mine.ID, ProjectID: "00000000-0000-0000-0000-000000000999"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.noteUC.Create(ctx, alice, in)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	_, err := f.noteUC.Create(ctx, alice, dto.CreateDeliveryNoteRequest{ClientID: "x", ProjectID: "y"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Messages, 2)
}

func TestDeliveryNoteCreate_LineasInvalidas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")

	_, err := f.noteUC.Create(ctx, alice, dto.CreateDeliveryNoteRequest{
		ClientID:  c.ID,
		ProjectID: p.ID,
		Materials: []dto.MaterialDTO{{Description: "Arena", Quantity: dec("-1")}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages[0], "materials[0].quantity")
}

func TestDeliveryNote_FirmaBloqueaBorradoYEdicion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n := f.mustNote(t, alice)

	sig, err := f.noteUC.Sign(ctx, alice, n.ID, []byte("png"), "firma.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.test/ipfs/signature_"+n.ID+".png", sig.SignatureURL)

	_, err = f.noteUC.Sign(ctx, alice, n.ID, []byte("png"), "firma.png", "image/png")
	assert.ErrorIs(t, err, domain.ErrAlreadySigned)
	assert.Equal(t, 1, f.uploader.calls, "el segundo intento no debe subir nada")

	_, err = f.noteUC.Delete(ctx, alice, n.ID)
	assert.ErrorIs(t, err, domain.ErrSignedRecordImmutable)

	_, err = f.noteUC.Update(ctx, alice, n.ID, dto.UpdateDeliveryNoteRequest{Description: strPtr("cambio")})
	assert.ErrorIs(t, err, domain.ErrSignedRecordImmutable)

	got, err := f.noteUC.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Signed)
	require.NotNil(t, got.SignatureURL)
	assert.Equal(t, sig.SignatureURL, *got.SignatureURL)
}

func TestDeliveryNoteSign_FalloDeSubidaNoFirma(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n := f.mustNote(t, alice)
	f.uploader.err = errUpload

	_, err := f.noteUC.Sign(ctx, alice, n.ID, []byte("png"), "firma.png", "image/png")
	assert.ErrorIs(t, err, errUpload)

	got, err := f.noteUC.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.False(t, got.Signed)
	assert.Nil(t, got.SignatureURL)
}

func TestDeliveryNoteSign_FicheroNoImagen(t *testing.T) {
	f := newFixture()
	n := f.mustNote(t, alice)

	_, err := f.noteUC.Sign(context.Background(), alice, n.ID, []byte("x"), "firma.txt", "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.uploader.calls)
}

func TestDeliveryNote_BorradoSinFirmar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n := f.mustNote(t, alice)

	_, err := f.noteUC.Delete(ctx, bob, n.ID)
	require.NoError(t, err, "la misma empresa puede borrar")

	_, err = f.noteUC.Get(ctx, alice, n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryNoteUpdate_RecalculaTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n := f.mustNote(t, alice)

	out, err := f.noteUC.Update(ctx, alice, n.ID, dto.UpdateDeliveryNoteRequest{Labor: []dto.LaborDTO{}})
	require.NoError(t, err)
	assert.True(t, dec("45").Equal(out.TotalCost), "solo queda el material: %s", out.TotalCost)
	assert.Len(t, out.Materials, 1)
	assert.Empty(t, out.Labor)

	out, err = f.noteUC.Update(ctx, alice, n.ID, dto.UpdateDeliveryNoteRequest{Description: strPtr("Semana 13")})
	require.NoError(t, err)
	assert.Equal(t, "Semana 13", out.Description)
	assert.True(t, dec("45").Equal(out.TotalCost), "sin cambios de líneas el total se mantiene")
}

func TestDeliveryNote_FueraDeAlcanceEsForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n := f.mustNote(t, alice)

	_, err := f.noteUC.Get(ctx, carol, n.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.noteUC.PDF(ctx, carol, n.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.noteUC.Sign(ctx, carol, n.ID, []byte("png"), "f.png", "image/png")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.noteUC.Delete(ctx, carol, n.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.noteUC.List(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeliveryNotePDF_CargaDatosRelacionados(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &entity.User{ID: userA, Email: "alice@acme.es"}))
	n := f.mustNote(t, alice)

	pdf, err := f.noteUC.PDF(ctx, bob, n.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	doc := f.renderer.last
	require.NotNil(t, doc.User)
	assert.Equal(t, "alice@acme.es", doc.User.Email)
	require.NotNil(t, doc.Client)
	assert.Equal(t, "Obras Norte", doc.Client.Name)
	require.NotNil(t, doc.Project)
	assert.Equal(t, "Reforma local", doc.Project.Name)
}
