package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/pkg/jwt"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

// Mensajes mostrados al usuario tras registro y login.
const (
	MsgRegistered         = "Registro realizado com sucesso! Aguarde a ativação do administrador."
	MsgLoggedIn           = "Login realizado com sucesso!"
	MsgAwaitingActivation = "Seu acesso ainda não foi liberado por um administrador. Por favor, aguarde."
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de sesión a perfil.
// La identidad autentica; el perfil (rol + activo) autoriza y se crea pendiente en la primera sesión.
type AuthUseCase struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	jwtCfg     JWTConfig
	notifier   notify.Publisher
	log        *logger.Logger
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. notifier y log pueden ser nil.
func NewAuthUseCase(
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	jwtCfg JWTConfig,
	notifier notify.Publisher,
	log *logger.Logger,
) *AuthUseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		identities: identities,
		profiles:   profiles,
		jwtCfg:     jwtCfg,
		notifier:   notifier,
		log:        log.Component("auth"),
		now:        time.Now,
	}
}

// Register crea la identidad (password con bcrypt) y su perfil pendiente.
// ErrDuplicate si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validationf("email inválido")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Validationf("a senha deve ter pelo menos %d caracteres", minPasswordLen)
	}
	existing, err := uc.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email %s", domain.ErrDuplicate, email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	identity := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.identities.Create(ctx, identity); err != nil {
		return nil, err
	}
	profile, err := uc.ResolveProfile(ctx, identity.ID, identity.Email)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", identity.ID).Msg("identidad registrada")
	return &dto.RegisterResponse{Message: MsgRegistered, Profile: toProfileResponse(profile)}, nil
}

// Login verifica email/password y genera el JWT. Un perfil inactivo puede iniciar sesión,
// pero la respuesta lo marca como AwaitingActivation.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	identity, err := uc.identities.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, identity.ID, identity.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	profile, err := uc.ResolveProfile(ctx, identity.ID, identity.Email)
	if err != nil {
		return nil, err
	}
	out := &dto.LoginResponse{
		Token:   token,
		Message: MsgLoggedIn,
		Profile: toProfileResponse(profile),
	}
	if !profile.IsActive {
		out.AwaitingActivation = true
		out.Message = MsgAwaitingActivation
	}
	return out, nil
}

// ResolveSession valida el token y devuelve el perfil de la identidad, creándolo si falta.
func (uc *AuthUseCase) ResolveSession(ctx context.Context, token string) (*entity.Profile, error) {
	userID, email, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return uc.ResolveProfile(ctx, userID, email)
}

// ResolveProfile devuelve el perfil de userID; si no existe crea uno pendiente e inactivo.
func (uc *AuthUseCase) ResolveProfile(ctx context.Context, userID, email string) (*entity.Profile, error) {
	profile, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	profile = entity.NewPendingProfile(userID, email, uc.now().UTC())
	if err := uc.profiles.Create(ctx, profile); err != nil {
		// Dos requests simultáneos de la misma identidad: gana el primero.
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.profiles.GetByID(ctx, userID)
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("email", email).Msg("perfil pendiente creado")
	if err := uc.notifier.Publish(ctx, notify.TableProfiles); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo publicar el cambio de perfiles")
	}
	return profile, nil
}

// BootstrapAdmin garantiza que email exista como administrador activo. Si la identidad no
// existe la registra con password; si existe, solo promueve su perfil.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, email, password string) (*entity.Profile, error) {
	email = normalizeEmail(email)
	identity, err := uc.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	var userID string
	if identity == nil {
		reg, err := uc.Register(ctx, dto.RegisterRequest{Email: email, Password: password})
		if err != nil {
			return nil, err
		}
		userID = reg.Profile.ID
	} else {
		userID = identity.ID
	}
	profile, err := uc.ResolveProfile(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	if profile.Role == entity.RoleAdmin && profile.IsActive {
		return profile, nil
	}
	profile.Role = entity.RoleAdmin
	profile.IsActive = true
	profile.UpdatedAt = uc.now().UTC()
	if err := uc.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("email", email).Msg("administrador inicial habilitado")
	if err := uc.notifier.Publish(ctx, notify.TableProfiles); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo publicar el cambio de perfiles")
	}
	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
