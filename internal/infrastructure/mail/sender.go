// Package mail entrega el código de verificación de email.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var (
	_ ports.VerificationSender = (*SMTPSender)(nil)
	_ ports.VerificationSender = (*LogSender)(nil)
)

const verificationSubject = "Código de verificación"

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía el código por SMTP.
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender construye el remitente a partir de la configuración de correo.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *SMTPSender) SendVerificationCode(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/plain", fmt.Sprintf("Tu código de verificación es %s", code))
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar código: %w", err)
	}
	return nil
}

// LogSender solo deja constancia en el log; se usa cuando no hay SMTP configurado.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSender{log: log}
}

func (s *LogSender) SendVerificationCode(_ context.Context, email, code string) error {
	s.log.Info().Str("email", email).Str("code", code).Msg("código de verificación generado (SMTP no configurado)")
	return nil
}

// New elige SMTPSender o LogSender según haya SMTP_HOST.
func New(cfg config.MailConfig, log *logger.Logger) ports.VerificationSender {
	if cfg.SMTPHost == "" {
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg)
}
