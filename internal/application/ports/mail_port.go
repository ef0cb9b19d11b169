package ports

import "context"

// VerificationSender entrega al usuario el código de verificación de email.
type VerificationSender interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
