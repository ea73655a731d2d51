package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

// UserUseCase administración de perfiles: listar, activar/desactivar y cambiar rol.
// Solo admin; nadie puede modificar su propio perfil.
type UserUseCase struct {
	repo     repository.ProfileRepository
	notifier notify.Publisher
	log      *logger.Logger
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.ProfileRepository, notifier notify.Publisher, log *logger.Logger) *UserUseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, notifier: notifier, log: log.Component("users"), now: time.Now}
}

// List devuelve todos los perfiles.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Profile) ([]dto.ProfileResponse, error) {
	if err := access.Authorize(actor, access.UsersManage); err != nil {
		return nil, err
	}
	profiles, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, ToProfileResponse(p))
	}
	return items, nil
}

// ToggleActive invierte is_active del perfil userID.
func (uc *UserUseCase) ToggleActive(ctx context.Context, actor entity.Profile, userID string) (*dto.ProfileActionResponse, error) {
	if err := access.AuthorizeProfileChange(actor, userID); err != nil {
		return nil, err
	}
	profile, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.IsActive = !profile.IsActive
	profile.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	state := "desativado"
	if profile.IsActive {
		state = "ativado"
	}
	uc.log.Info().Str("actor", actor.ID).Str("user_id", userID).Bool("is_active", profile.IsActive).Msg("estado de usuario cambiado")
	uc.publish(ctx)
	return &dto.ProfileActionResponse{
		Message: fmt.Sprintf("Usuário %s com sucesso!", state),
		Profile: ToProfileResponse(profile),
	}, nil
}

// ChangeRole asigna role (pending | simple | admin) al perfil userID.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor entity.Profile, userID, role string) (*dto.ProfileActionResponse, error) {
	if err := access.AuthorizeProfileChange(actor, userID); err != nil {
		return nil, err
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !entity.ValidRole(role) {
		return nil, domain.Validationf("papel inválido: %q", role)
	}
	profile, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Role = role
	profile.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor", actor.ID).Str("user_id", userID).Str("role", role).Msg("rol de usuario cambiado")
	uc.publish(ctx)
	return &dto.ProfileActionResponse{
		Message: fmt.Sprintf("Papel do usuário alterado para %s com sucesso!", role),
		Profile: ToProfileResponse(profile),
	}, nil
}

func (uc *UserUseCase) load(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: perfil %s", domain.ErrNotFound, userID)
	}
	return profile, nil
}

func (uc *UserUseCase) publish(ctx context.Context) {
	if err := uc.notifier.Publish(ctx, notify.TableProfiles); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo publicar el cambio de perfiles")
	}
}

// ToProfileResponse convierte el perfil a su DTO.
func ToProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
