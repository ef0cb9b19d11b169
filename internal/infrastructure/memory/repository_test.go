package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/memory"
)

func TestClientRepository_CIFUnicoGlobal(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewClientRepository()

	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "c1", OwnerUserID: "u1", CIF: "B11111111"}))
	err := repo.Create(ctx, &entity.Client{ID: "c2", OwnerUserID: "u2", CIF: "B11111111"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestClientRepository_ListByScope(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewClientRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "propio", OwnerUserID: "u1", CIF: "A1", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "empresa", OwnerUserID: "u2", CompanyCIF: "B12345678", CIF: "A2", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "ajeno", OwnerUserID: "u3", CIF: "A3"}))
	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "archivado", OwnerUserID: "u1", CIF: "A4", Archived: true}))

	active, err := repo.ListByScope(ctx, repository.Scope{UserID: "u1", CompanyCIF: "B12345678"}, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "empresa", active[0].ID, "más reciente primero")
	assert.Equal(t, "propio", active[1].ID)

	archived, err := repo.ListByScope(ctx, repository.Scope{UserID: "u1"}, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "archivado", archived[0].ID)
}

func TestClientRepository_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewClientRepository()
	require.NoError(t, repo.Create(ctx, &entity.Client{ID: "c1", Name: "Original", CIF: "A1"}))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	got.Name = "Cambiado"

	again, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)

	missing, err := repo.GetByID(ctx, "nada")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeliveryNoteRepository_FirmaCondicional(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDeliveryNoteRepository()
	require.NoError(t, repo.Create(ctx, &entity.DeliveryNote{ID: "n1", OwnerUserID: "u1"}))

	require.NoError(t, repo.MarkSigned(ctx, "n1", "https://ipfs/firma.png"))
	assert.ErrorIs(t, repo.MarkSigned(ctx, "n1", "https://ipfs/otra.png"), domain.ErrAlreadySigned)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), domain.ErrSignedRecordImmutable)
	assert.ErrorIs(t, repo.Update(ctx, &entity.DeliveryNote{ID: "n1", Description: "x"}), domain.ErrSignedRecordImmutable)

	n, err := repo.GetByID(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, n.Signed)
	assert.Equal(t, "https://ipfs/firma.png", n.SignatureURL)
}

func TestUserRepository_Unicidad(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "a@x.es", NIF: "12345678Z", Company: &entity.Company{CIF: "B12345678"}}))

	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "a@x.es"}), domain.ErrEmailAlreadyExists)

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "b@x.es"}))
	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: "u2", Email: "b@x.es", NIF: "12345678Z"}), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: "u2", Email: "b@x.es", Company: &entity.Company{CIF: "B12345678"}}), domain.ErrDuplicate)

	byCIF, err := repo.GetByCompanyCIF(ctx, "B12345678")
	require.NoError(t, err)
	require.NotNil(t, byCIF)
	assert.Equal(t, "u1", byCIF.ID)
}
