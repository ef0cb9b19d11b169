// Package alert implementa ports.Notifier: avisos a Slack de errores 5xx.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var (
	_ ports.Notifier = (*SlackNotifier)(nil)
	_ ports.Notifier = Noop{}
)

// SlackNotifier envía el mensaje a un webhook entrante de Slack en segundo plano.
// Un fallo de entrega solo se registra en el log; nunca afecta a la petición.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	log        *logger.Logger
	wg         sync.WaitGroup
}

// NewSlackNotifier construye el notificador. timeout limita cada envío.
func NewSlackNotifier(webhookURL string, timeout time.Duration, log *logger.Logger) *SlackNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Notify no bloquea: el envío se hace en una goroutine.
func (n *SlackNotifier) Notify(message string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(message); err != nil {
			n.log.Warn().Err(err).Msg("no se pudo enviar la alerta a Slack")
		}
	}()
}

// Wait espera a que terminen los envíos en curso (apagado ordenado y tests).
func (n *SlackNotifier) Wait() {
	n.wg.Wait()
}

func (n *SlackNotifier) send(message string) error {
	payload, err := json.Marshal(map[string]string{"text": " *ERROR 5XX DETECTADO:*\n" + message})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack: status %d", resp.StatusCode)
	}
	return nil
}

// Noop notificador que descarta los mensajes (sin SLACK_WEBHOOK_URL).
type Noop struct{}

func (Noop) Notify(string) {}

// New devuelve SlackNotifier si hay webhook configurado; si no, Noop.
func New(webhookURL string, timeout time.Duration, log *logger.Logger) ports.Notifier {
	if webhookURL == "" {
		return Noop{}
	}
	return NewSlackNotifier(webhookURL, timeout, log)
}
