package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// UserUseCase perfil del usuario autenticado: datos personales, empresa, logo y baja.
type UserUseCase struct {
	repo     repository.UserRepository
	uploader ports.FileUploader
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el de subida de ficheros.
func NewUserUseCase(repo repository.UserRepository, uploader ports.FileUploader) *UserUseCase {
	return &UserUseCase{repo: repo, uploader: uploader}
}

// Get devuelve el perfil del usuario ya resuelto por el middleware.
func (uc *UserUseCase) Get(user *entity.User) *dto.UserResponse {
	return ToUserResponse(user)
}

// UpdatePersonalData fija nombre, apellidos y NIF. Devuelve ErrDuplicate si el NIF es de otro usuario.
func (uc *UserUseCase) UpdatePersonalData(ctx context.Context, user *entity.User, in dto.PersonalDataRequest) (*dto.UserResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	other, err := uc.repo.GetByNIF(ctx, in.NIF)
	if err != nil {
		return nil, fmt.Errorf("user: buscar nif: %w", err)
	}
	if other != nil && other.ID != user.ID {
		return nil, domain.ErrDuplicate
	}
	user.Name = in.Name
	user.Surnames = in.Surnames
	user.NIF = in.NIF
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateCompany guarda el perfil de empresa. Para autónomos el nombre y el CIF de la empresa
// son su nombre y NIF personales. El CIF no puede pertenecer a otro usuario (ErrDuplicate).
func (uc *UserUseCase) UpdateCompany(ctx context.Context, user *entity.User, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	company := &entity.Company{
		Name:     in.Company.Name,
		CIF:      in.Company.CIF,
		Street:   in.Company.Street,
		Number:   in.Company.Number,
		Postal:   in.Company.Postal,
		City:     in.Company.City,
		Province: in.Company.Province,
	}
	if user.Role == entity.RoleAutonomo {
		if user.NIF == "" {
			return nil, domain.NewValidationError("nif: registra tus datos personales antes que la empresa")
		}
		company.Name = user.Name
		company.CIF = user.NIF
	}
	other, err := uc.repo.GetByCompanyCIF(ctx, company.CIF)
	if err != nil {
		return nil, fmt.Errorf("user: buscar cif de empresa: %w", err)
	}
	if other != nil && other.ID != user.ID {
		return nil, domain.ErrDuplicate
	}
	if user.Company != nil {
		company.LogoURL = user.Company.LogoURL
	}
	user.Company = company
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.CompanyResponse{
		Message: "Empresa actualizada correctamente",
		Company: *toCompanyDTO(company),
	}, nil
}

// UploadLogo sube la imagen y guarda su URL en la empresa. Si la subida falla el usuario no cambia.
func (uc *UserUseCase) UploadLogo(ctx context.Context, user *entity.User, data []byte, filename, contentType string) (*dto.LogoResponse, error) {
	if err := validation.Image("logo", int64(len(data)), contentType); err != nil {
		return nil, err
	}
	if user.Company == nil {
		return nil, domain.NewValidationError("company: registra la empresa antes de subir el logo")
	}
	url, err := uc.uploader.Upload(ctx, data, "logo_"+user.ID+filepath.Ext(filename), contentType)
	if err != nil {
		return nil, fmt.Errorf("user: subir logo: %w", err)
	}
	user.Company.LogoURL = url
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.LogoResponse{Message: "Logo actualizado correctamente", LogoURL: url}, nil
}

// Delete da de baja al usuario: soft marca deleted=true (su token deja de valer); hard borra la fila.
func (uc *UserUseCase) Delete(ctx context.Context, user *entity.User, soft bool) (*dto.MessageResponse, error) {
	if soft {
		if err := uc.repo.SoftDelete(ctx, user.ID); err != nil {
			return nil, err
		}
		return &dto.MessageResponse{Message: "Usuario eliminado (soft delete)"}, nil
	}
	if err := uc.repo.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Usuario eliminado definitivamente"}, nil
}

// ToUserResponse convierte la entidad en la respuesta pública (sin hash ni código).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		Deleted:       u.Deleted,
		Name:          u.Name,
		Surnames:      u.Surnames,
		NIF:           u.NIF,
		Company:       toCompanyDTO(u.Company),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toCompanyDTO(c *entity.Company) *dto.CompanyDTO {
	if c == nil {
		return nil
	}
	return &dto.CompanyDTO{
		Name:     c.Name,
		CIF:      c.CIF,
		Street:   c.Street,
		Number:   c.Number,
		Postal:   c.Postal,
		City:     c.City,
		Province: c.Province,
		LogoURL:  c.LogoURL,
	}
}
