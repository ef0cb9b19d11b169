package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// Config parámetros de la verificación de email.
type Config struct {
	MaxVerificationAttempts int
}

// AuthUseCase casos de uso de autenticación: registro, login y verificación de email.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	sender   ports.VerificationSender
	cfg      Config
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	sender ports.VerificationSender,
	cfg Config,
) *AuthUseCase {
	if cfg.MaxVerificationAttempts < 1 {
		cfg.MaxVerificationAttempts = 3
	}
	return &AuthUseCase{userRepo: userRepo, hasher: hasher, tokens: tokens, sender: sender, cfg: cfg}
}

// Register crea un usuario sin verificar con un código de 6 cifras y devuelve su token.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("auth: código de verificación: %w", err)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	now := time.Now()
	user := &entity.User{
		ID:                uuid.New().String(),
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              role,
		VerificationCode:  code,
		AttemptsRemaining: uc.cfg.MaxVerificationAttempts,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	// Sin código entregado no se guarda el usuario: puede reintentar el registro.
	if uc.sender != nil {
		if err := uc.sender.SendVerificationCode(ctx, user.Email, code); err != nil {
			return nil, fmt.Errorf("auth: enviar código: %w", err)
		}
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.RegisterResponse{
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Role:          user.Role,
		Token:         token,
	}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido, cuenta borrada o password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if user == nil || user.Deleted {
		return nil, domain.ErrUnauthorized
	}
	if !uc.hasher.Compare(in.Password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}

// VerifyEmail comprueba el código del usuario autenticado.
// Un código erróneo consume un intento; al acertar se reinician los intentos.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, user *entity.User, in dto.VerifyEmailRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}
	if user.AttemptsRemaining <= 0 {
		return domain.ErrVerificationExhausted
	}
	user.UpdatedAt = time.Now()
	if user.VerificationCode != in.Code {
		user.AttemptsRemaining--
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return domain.ErrVerificationMismatch
	}
	user.EmailVerified = true
	user.AttemptsRemaining = uc.cfg.MaxVerificationAttempts
	return uc.userRepo.Update(ctx, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateVerificationCode número aleatorio entre 100000 y 999999.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
