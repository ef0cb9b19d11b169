package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/identity"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/memory"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/security"
	apphttp "github.com/jhoicas/albaranes-api/internal/interfaces/http"
	"github.com/jhoicas/albaranes-api/pkg/jwt"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, _ []byte, filename, _ string) (string, error) {
	return "https://ipfs.io/ipfs/Qm" + filename, nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderDeliveryNote(context.Context, ports.DeliveryNoteDocument) ([]byte, error) {
	return []byte("%PDF-1.7 test"), nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	users := memory.NewUserRepository()
	clients := memory.NewClientRepository()
	projects := memory.NewProjectRepository()
	notes := memory.NewDeliveryNoteRepository()
	tokens := jwt.NewManager("test-secret-key-for-unit-tests", "albaranes-api-test", 60)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop(), &recordingNotifier{})})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(users, security.NewBcryptHasher(bcrypt.MinCost), tokens, nil, auth.Config{MaxVerificationAttempts: 3}),
		UserUC:         usecase.NewUserUseCase(users, fakeUploader{}),
		ClientUC:       usecase.NewClientUseCase(clients),
		ProjectUC:      usecase.NewProjectUseCase(projects, clients),
		DeliveryNoteUC: usecase.NewDeliveryNoteUseCase(notes, clients, projects, users, fakeUploader{}, fakeRenderer{}),
		Resolver:       identity.NewResolver(tokens, users),
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, token string) (int, map[string]interface{}, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body, raw
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	status, body, _ := do(t, app, req, token)
	return status, body
}

func listLen(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	status, _, raw := do(t, app, req, token)
	require.Equal(t, http.StatusOK, status)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &list))
	return len(list)
}

// register crea un usuario y, si cif no está vacío, le asigna empresa. Devuelve el token.
func register(t *testing.T, app *fiber.App, email, cif string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": email, "password": "supersecreta",
	})
	require.Equal(t, http.StatusCreated, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	if cif != "" {
		status, body = doJSON(t, app, http.MethodPatch, "/api/user/company", token, companyPayload(cif))
		require.Equal(t, http.StatusOK, status, body)
	}
	return token
}

func companyPayload(cif string) map[string]interface{} {
	return map[string]interface{}{
		"company": map[string]string{
			"name": "Empresa " + cif, "cif": cif, "street": "Mayor",
			"number": "1", "postal": "28001", "city": "Madrid", "province": "Madrid",
		},
	}
}

func create(t *testing.T, app *fiber.App, path, token string, payload interface{}) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, path, token, payload)
	require.Equal(t, http.StatusCreated, status, body)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func pngUpload(t *testing.T, path, field string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="firma.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPatch, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinTokenEs401(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/client", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "UNAUTHENTICATED", body["code"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/client", "token-basura", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_LoginIncorrectoEs401(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "ana@test.com", "")

	status, body := doJSON(t, app, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ana@test.com", "password": "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ana@test.com", "password": "supersecreta",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestUser_RegistroDuplicadoEs409(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "ana@test.com", "")

	status, body := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": "ANA@test.com", "password": "supersecreta",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
}

func TestUser_SoftDeleteInvalidaToken(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "")

	status, body := doJSON(t, app, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@test.com", body["email"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUser_ValidacionConCodigoIncorrecto(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "")

	status, body := doJSON(t, app, http.MethodPut, "/api/user/validation", token, map[string]string{"code": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.IsType(t, []interface{}{}, body["message"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de clientes, proyectos y albaranes
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_ArchivarYRestaurar(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "B12345678")
	id := create(t, app, "/api/client", token, map[string]string{"name": "Obras Norte", "cif": "B11111111"})

	require.Equal(t, 1, listLen(t, app, "/api/client", token))
	require.Equal(t, 0, listLen(t, app, "/api/client/archived", token))

	status, _ := doJSON(t, app, http.MethodDelete, "/api/client/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, listLen(t, app, "/api/client", token))
	assert.Equal(t, 1, listLen(t, app, "/api/client/archived", token))

	status, _ = doJSON(t, app, http.MethodGet, "/api/client/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, status, "un cliente archivado no se ve por id")

	status, _ = doJSON(t, app, http.MethodPatch, "/api/client/"+id+"/restore", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, listLen(t, app, "/api/client", token))
	assert.Equal(t, 0, listLen(t, app, "/api/client/archived", token))

	status, _ = doJSON(t, app, http.MethodPatch, "/api/client/"+id+"/restore", token, nil)
	assert.Equal(t, http.StatusNotFound, status, "restaurar un cliente activo")
}

func TestClient_CIFDuplicadoEs409(t *testing.T) {
	app := newTestApp(t)
	ana := register(t, app, "ana@test.com", "")
	otro := register(t, app, "otro@test.com", "")
	create(t, app, "/api/client", ana, map[string]string{"name": "Obras Norte", "cif": "B11111111"})

	status, body := doJSON(t, app, http.MethodPost, "/api/client", otro, map[string]string{"name": "Otro", "cif": "B11111111"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", body["code"])
}

// El CIF de empresa es único entre usuarios: el compañero entra en el alcance de la empresa
// cuando el CIF queda libre y lo registra él. Los registros conservan la etiqueta de su creación.
func TestClient_OtraEmpresaEs403(t *testing.T) {
	app := newTestApp(t)
	ana := register(t, app, "ana@test.com", "B12345678")
	id := create(t, app, "/api/client", ana, map[string]string{"name": "Obras Norte", "cif": "B11111111"})

	companero := register(t, app, "luis@test.com", "")
	status, body := doJSON(t, app, http.MethodPatch, "/api/user/company", companero, companyPayload("B12345678"))
	assert.Equal(t, http.StatusConflict, status, "el CIF ocupado no se puede repetir")
	assert.Equal(t, "DUPLICATE", body["code"])

	status, body = doJSON(t, app, http.MethodPatch, "/api/user/company", ana, companyPayload("B99999999"))
	require.Equal(t, http.StatusOK, status, body)
	status, body = doJSON(t, app, http.MethodPatch, "/api/user/company", companero, companyPayload("B12345678"))
	require.Equal(t, http.StatusOK, status, body)
	ajeno := register(t, app, "carla@test.com", "B87654321")

	status, _ = doJSON(t, app, http.MethodGet, "/api/client/"+id, companero, nil)
	assert.Equal(t, http.StatusOK, status, "misma empresa puede leer")
	assert.Equal(t, 1, listLen(t, app, "/api/client", companero))

	status, body = doJSON(t, app, http.MethodGet, "/api/client/"+id, ajeno, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/client/"+id, companero, nil)
	assert.Equal(t, http.StatusForbidden, status, "solo el propietario borra clientes")

	status, _ = doJSON(t, app, http.MethodGet, "/api/client/"+id, ana, nil)
	assert.Equal(t, http.StatusOK, status, "el propietario conserva el acceso tras cambiar de empresa")
}

func TestIDMalformadoEs400(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "")

	upper := "/api/client/7B0C1F7E-3C2A-4A4E-9A53-1D7F3F0F2C11"
	braced := "/api/project/%7B7b0c1f7e-3c2a-4a4e-9a53-1d7f3f0f2c11%7D"
	urn := "/api/deliverynote/urn:uuid:7b0c1f7e-3c2a-4a4e-9a53-1d7f3f0f2c11"
	for _, path := range []string{"/api/client/no-es-uuid", "/api/project/no-es-uuid", "/api/deliverynote/no-es-uuid", upper, braced, urn} {
		status, body := doJSON(t, app, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION", body["code"], path)
	}
}

func TestDeliveryNote_FirmarYBorrarEs400(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "B12345678")
	clientID := create(t, app, "/api/client", token, map[string]string{"name": "Obras Norte", "cif": "B11111111"})
	projectID := create(t, app, "/api/project", token, map[string]string{"name": "Calle Mayor", "client_id": clientID})
	noteID := create(t, app, "/api/deliverynote", token, map[string]interface{}{
		"client_id":  clientID,
		"project_id": projectID,
		"materials":  []map[string]interface{}{{"description": "Azulejo", "quantity": 10, "unit": "m2", "unit_price": 12.5}},
		"labor":      []map[string]interface{}{{"worker": "Luis", "hours": 2, "hourly_rate": 30}},
	})

	status, body := doJSON(t, app, http.MethodGet, "/api/deliverynote/"+noteID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "185", body["total_cost"])
	assert.Equal(t, false, body["signed"])

	status, body, _ = do(t, app, pngUpload(t, "/api/deliverynote/"+noteID+"/signature", "signature"), token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Contains(t, body["signature_url"], "signature_"+noteID)

	status, body = doJSON(t, app, http.MethodDelete, "/api/deliverynote/"+noteID, token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SIGNED_IMMUTABLE", body["code"])

	status, body, _ = do(t, app, pngUpload(t, "/api/deliverynote/"+noteID+"/signature", "signature"), token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ALREADY_SIGNED", body["code"])

	status, body = doJSON(t, app, http.MethodPatch, "/api/deliverynote/"+noteID, token, map[string]string{"description": "cambio"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SIGNED_IMMUTABLE", body["code"])
}

func TestDeliveryNote_PDF(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana@test.com", "")
	clientID := create(t, app, "/api/client", token, map[string]string{"name": "Obras Norte", "cif": "B11111111"})
	projectID := create(t, app, "/api/project", token, map[string]string{"name": "Calle Mayor", "client_id": clientID})
	noteID := create(t, app, "/api/deliverynote", token, map[string]string{"client_id": clientID, "project_id": projectID})

	req := httptest.NewRequest(http.MethodGet, "/api/deliverynote/pdf/"+noteID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="deliverynote_`+noteID+`.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestProject_ClienteFueraDeAlcanceEs404(t *testing.T) {
	app := newTestApp(t)
	ana := register(t, app, "ana@test.com", "B12345678")
	ajeno := register(t, app, "carla@test.com", "B87654321")
	clientID := create(t, app, "/api/client", ana, map[string]string{"name": "Obras Norte", "cif": "B11111111"})

	status, body := doJSON(t, app, http.MethodPost, "/api/project", ajeno, map[string]string{"name": "Intruso", "client_id": clientID})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Manejador de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_5xxNotificaYOcultaDetalle(t *testing.T) {
	notifier := &recordingNotifier{}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop(), notifier)})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("conexión a la base de datos perdida") })

	status, body := doJSON(t, app, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.NotContains(t, body["message"], "base de datos")

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "GET /boom - Código 500")
}

func TestErrorHandler_4xxNoNotifica(t *testing.T) {
	notifier := &recordingNotifier{}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop(), notifier)})

	status, body := doJSON(t, app, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, true, body["error"])
	assert.Empty(t, notifier.messages)
}

func TestErrorHandler_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("client: cargar: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_EXISTS"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrAlreadySigned, http.StatusBadRequest, "ALREADY_SIGNED"},
		{domain.ErrSignedRecordImmutable, http.StatusBadRequest, "SIGNED_IMMUTABLE"},
		{domain.NewValidationError("id: identificador inválido"), http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.code+" "+tc.err.Error(), func(t *testing.T) {
			notifier := &recordingNotifier{}
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop(), notifier)})
			app.Get("/x", func(c *fiber.Ctx) error { return tc.err })

			status, body := doJSON(t, app, http.MethodGet, "/x", "", nil)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
			assert.Empty(t, notifier.messages)
		})
	}
}
