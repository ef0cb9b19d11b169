package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
)

var _ ports.FileUploader = (*PinataUploader)(nil)

// DefaultPinataURL endpoint de pinning de ficheros de Pinata.
const DefaultPinataURL = "https://api.pinata.cloud/pinning/pinFileToIPFS"

// PinataConfig credenciales de Pinata. Con JWT se usa Bearer; si no, la pareja api key / secret.
type PinataConfig struct {
	JWT        string
	APIKey     string
	SecretKey  string
	GatewayURL string // base de la URL pública: <gateway>/ipfs/<hash>
	Endpoint   string // vacío = DefaultPinataURL
}

// PinataUploader sube ficheros a IPFS a través de Pinata.
type PinataUploader struct {
	cfg    PinataConfig
	client *http.Client
}

// NewPinataUploader construye el uploader.
func NewPinataUploader(cfg PinataConfig) *PinataUploader {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultPinataURL
	}
	cfg.GatewayURL = strings.TrimRight(cfg.GatewayURL, "/")
	return &PinataUploader{cfg: cfg, client: &http.Client{Timeout: 60 * time.Second}}
}

type pinataResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Upload envía el fichero como multipart y devuelve la URL del gateway. No reintenta.
func (u *PinataUploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("pinata: multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("pinata: multipart: %w", err)
	}
	metadata, _ := json.Marshal(map[string]string{"name": filename})
	_ = w.WriteField("pinataMetadata", string(metadata))
	_ = w.WriteField("pinataOptions", `{"cidVersion":0}`)
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("pinata: multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("pinata: request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if u.cfg.JWT != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.JWT)
	} else {
		req.Header.Set("pinata_api_key", u.cfg.APIKey)
		req.Header.Set("pinata_secret_api_key", u.cfg.SecretKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pinata: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out pinataResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pinata: respuesta inválida: %w", err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("pinata: respuesta sin IpfsHash")
	}
	return u.cfg.GatewayURL + "/ipfs/" + out.IpfsHash, nil
}
