package license

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// ErrStorageDisabled el almacenamiento de adjuntos no está configurado.
var ErrStorageDisabled = errors.New("almacenamiento de adjuntos no configurado")

// AddAttachment sube el archivo y luego lo registra en la licencia. Si el registro falla,
// el objeto subido se elimina.
func (uc *LicenseUseCase) AddAttachment(ctx context.Context, companyID, actor string, id int64, in dto.AttachmentUpload, r io.Reader) (*dto.LicenseResponse, error) {
	if uc.storage == nil {
		return nil, ErrStorageDisabled
	}
	if in.FileName == "" {
		return nil, domain.NewValidationError("file_name", "requerido")
	}
	key := fmt.Sprintf("%s/%d/%s%s", companyID, id, uuid.NewString(), path.Ext(in.FileName))
	if err := uc.storage.Put(ctx, key, r, in.SizeBytes, in.ContentType); err != nil {
		return nil, fmt.Errorf("subir adjunto: %w", err)
	}
	resp, err := uc.apply(ctx, companyID, id, entity.OpAddAttachment, func(l *entity.License, now time.Time) error {
		_, err := l.AddAttachment(entity.AttachmentParams{
			FileName:    in.FileName,
			ContentType: in.ContentType,
			SizeBytes:   in.SizeBytes,
			StorageKey:  key,
			Description: in.Description,
		}, actor, now)
		return err
	})
	if err != nil {
		uc.deleteObjects(ctx, id, []string{key})
		return nil, err
	}
	return resp, nil
}

// RemoveAttachment quita el adjunto y, tras el commit, elimina el objeto almacenado.
func (uc *LicenseUseCase) RemoveAttachment(ctx context.Context, companyID, actor string, id, attachmentID int64) (*dto.LicenseResponse, error) {
	var removed entity.LicenseAttachment
	lic, now, err := uc.mutate(ctx, companyID, id, entity.OpRemoveAttachment, func(l *entity.License, now time.Time) error {
		a, err := l.RemoveAttachment(attachmentID, actor, now)
		removed = a
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.deleteObjects(ctx, id, []string{removed.StorageKey})
	return ToLicenseResponse(lic, now), nil
}

// OpenAttachment devuelve los metadatos y el contenido del adjunto. El caller cierra el reader.
func (uc *LicenseUseCase) OpenAttachment(ctx context.Context, companyID string, id, attachmentID int64) (entity.LicenseAttachment, io.ReadCloser, error) {
	if uc.storage == nil {
		return entity.LicenseAttachment{}, nil, ErrStorageDisabled
	}
	lic, err := uc.load(ctx, companyID, id)
	if err != nil {
		return entity.LicenseAttachment{}, nil, err
	}
	a, ok := lic.Attachment(attachmentID)
	if !ok {
		return entity.LicenseAttachment{}, nil, fmt.Errorf("adjunto %d: %w", attachmentID, domain.ErrNotFound)
	}
	rc, err := uc.storage.Get(ctx, a.StorageKey)
	if err != nil {
		return entity.LicenseAttachment{}, nil, fmt.Errorf("leer adjunto: %w", err)
	}
	return a, rc, nil
}
