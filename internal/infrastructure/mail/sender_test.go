package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPSender_ConstruyeMensaje(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{from: "no-reply@test", dialer: d}

	require.NoError(t, s.SendVerificationCode(context.Background(), "ana@test.com", "123456"))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"ana@test.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@test"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "123456")
}

func TestSMTPSender_PropagaError(t *testing.T) {
	s := &SMTPSender{dialer: &fakeDialer{err: errors.New("conexión rechazada")}}
	err := s.SendVerificationCode(context.Background(), "ana@test.com", "1")
	assert.ErrorContains(t, err, "conexión rechazada")
}

func TestNew_SinHostUsaLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	s := New(config.MailConfig{}, log)
	require.IsType(t, &LogSender{}, s)
	require.NoError(t, s.SendVerificationCode(context.Background(), "ana@test.com", "654321"))
	assert.Contains(t, buf.String(), "654321")

	assert.IsType(t, &SMTPSender{}, New(config.MailConfig{SMTPHost: "smtp.test", SMTPPort: 25}, log))
}
