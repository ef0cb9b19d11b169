package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/memory"
)

const (
	userA   = "00000000-0000-0000-0000-00000000000a"
	userB   = "00000000-0000-0000-0000-00000000000b"
	userC   = "00000000-0000-0000-0000-00000000000c"
	cifAcme = "B12345678"
	cifOtra = "B87654321"
)

var (
	alice = access.Identity{UserID: userA, CompanyCIF: cifAcme} // Acme
	bob   = access.Identity{UserID: userB, CompanyCIF: cifAcme} // Acme, compañero de alice
	carol = access.Identity{UserID: userC, CompanyCIF: cifOtra} // otra empresa
)

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url + filename, nil
}

type fakeRenderer struct {
	last ports.DeliveryNoteDocument
}

func (f *fakeRenderer) RenderDeliveryNote(ctx context.Context, doc ports.DeliveryNoteDocument) ([]byte, error) {
	f.last = doc
	return []byte("%PDF-1.4 fake"), nil
}

var errUpload = errors.New("ipfs caído")

type fixture struct {
	users    *memory.UserRepository
	clients  *memory.ClientRepository
	projects *memory.ProjectRepository
	notes    *memory.DeliveryNoteRepository
	uploader *fakeUploader
	renderer *fakeRenderer

	clientUC  *usecase.ClientUseCase
	projectUC *usecase.ProjectUseCase
	noteUC    *usecase.DeliveryNoteUseCase
	userUC    *usecase.UserUseCase
}

func newFixture() *fixture {
	f := &fixture{
		users:    memory.NewUserRepository(),
		clients:  memory.NewClientRepository(),
		projects: memory.NewProjectRepository(),
		notes:    memory.NewDeliveryNoteRepository(),
		uploader: &fakeUploader{url: "https://gateway.test/ipfs/"},
		renderer: &fakeRenderer{},
	}
	f.clientUC = usecase.NewClientUseCase(f.clients)
	f.projectUC = usecase.NewProjectUseCase(f.projects, f.clients)
	f.noteUC = usecase.NewDeliveryNoteUseCase(f.notes, f.clients, f.projects, f.users, f.uploader, f.renderer)
	f.userUC = usecase.NewUserUseCase(f.users, f.uploader)
	return f
}

func (f *fixture) mustClient(t *testing.T, id access.Identity, name, cif string) *dto.ClientResponse {
	t.Helper()
	c, err := f.clientUC.Create(context.Background(), id, dto.CreateClientRequest{Name: name, CIF: cif})
	require.NoError(t, err)
	return c
}

func (f *fixture) mustProject(t *testing.T, id access.Identity, clientID, name string) *dto.ProjectResponse {
	t.Helper()
	p, err := f.projectUC.Create(context.Background(), id, dto.CreateProjectRequest{Name: name, ClientID: clientID})
	require.NoError(t, err)
	return p
}
