package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
)

func TestProjectCreate_NombreUnicoEnAlcance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	f.mustProject(t, alice, c.ID, "Reforma local")

	// bob comparte empresa con alice: mismo alcance
	_, err := f.projectUC.Create(ctx, bob, dto.CreateProjectRequest{Name: "Reforma local", ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// carol tiene un alcance disjunto
	other := f.mustClient(t, carol, "Cliente de Carol", "A33333333")
	p := f.mustProject(t, carol, other.ID, "Reforma local")
	assert.Equal(t, "Reforma local", p.Name)
}

func TestProjectCreate_NombreDeProyectoArchivadoSigueOcupado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")

	_, err := f.projectUC.Delete(ctx, alice, p.ID, true)
	require.NoError(t, err)

	_, err = f.projectUC.Create(ctx, alice, dto.CreateProjectRequest{Name: "Reforma local", ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProjectCreate_ClienteNoVisibleEsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, carol, "Ajeno", "A11111111")

	_, err := f.projectUC.Create(ctx, alice, dto.CreateProjectRequest{Name: "X", ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.projectUC.Create(ctx, alice, dto.CreateProjectRequest{Name: "X", ClientID: "00000000-0000-0000-0000-000000000999"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.projectUC.Create(ctx, alice, dto.CreateProjectRequest{Name: "X", ClientID: "mal"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectCreate_ClienteArchivadoEsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	_, err := f.clientUC.Delete(ctx, alice, c.ID, true)
	require.NoError(t, err)

	_, err = f.projectUC.Create(ctx, alice, dto.CreateProjectRequest{Name: "X", ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_ListaIncluyeResumenDelCliente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	f.mustProject(t, alice, c.ID, "Reforma local")

	list, err := f.projectUC.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Client)
	assert.Equal(t, "Obras Norte", list[0].Client.Name)
	assert.Equal(t, "A11111111", list[0].Client.CIF)
}

func TestProject_CompanyPuedeModificarYArchivar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")

	out, err := f.projectUC.Update(ctx, bob, p.ID, dto.UpdateProjectRequest{City: strPtr("Madrid")})
	require.NoError(t, err)
	assert.Equal(t, "Madrid", out.Project.City)
	assert.Equal(t, "Reforma local", out.Project.Name)

	_, err = f.projectUC.Delete(ctx, bob, p.ID, true)
	require.NoError(t, err)

	archived, err := f.projectUC.ListArchived(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, archived, 1)

	_, err = f.projectUC.Get(ctx, alice, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.projectUC.Restore(ctx, bob, p.ID)
	require.NoError(t, err)
	_, err = f.projectUC.Restore(ctx, bob, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_FueraDeAlcanceEsForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.mustClient(t, alice, "Obras Norte", "A11111111")
	p := f.mustProject(t, alice, c.ID, "Reforma local")

	for _, op := range []func() error{
		func() error { _, err := f.projectUC.Get(ctx, carol, p.ID); return err },
		func() error { _, err := f.projectUC.Update(ctx, carol, p.ID, dto.UpdateProjectRequest{}); return err },
		func() error { _, err := f.projectUC.Delete(ctx, carol, p.ID, false); return err },
		func() error { _, err := f.projectUC.Restore(ctx, carol, p.ID); return err },
	} {
		assert.ErrorIs(t, op(), domain.ErrForbidden)
	}
}

func TestProject_UsuarioSinEmpresaSoloVeLoSuyo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	solo := access.Identity{UserID: "00000000-0000-0000-0000-0000000000d0"}
	c := f.mustClient(t, solo, "Particular", "A44444444")
	f.mustProject(t, solo, c.ID, "Baño")
	f.mustProject(t, alice, f.mustClient(t, alice, "Obras Norte", "A11111111").ID, "Cocina")

	list, err := f.projectUC.List(ctx, solo)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Baño", list[0].Name)
	assert.Nil(t, list[0].CompanyCIF)
}
