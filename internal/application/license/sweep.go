package license

import (
	"context"
	"errors"

	"github.com/jhoicas/HSE-api/internal/domain"
)

// SweepResult resumen de una pasada del barrido de vencimientos.
type SweepResult struct {
	Scanned int
	Expired int
	Skipped int // cambiaron de estado entre la consulta y el bloqueo
	Failed  int
}

// ExpireOverdue recorre las licencias vencibles con ExpiryDate pasada y aplica Expire a cada una
// en su propia transacción. Pagina por id (keyset), así un lote completo de fallidas u omitidas
// no impide llegar a los ids mayores.
func (uc *LicenseUseCase) ExpireOverdue(ctx context.Context, actor string, batchSize int) (SweepResult, error) {
	var res SweepResult
	if batchSize <= 0 {
		batchSize = 100
	}
	var lastID int64
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch, err := uc.repo.ListExpirable(ctx, uc.now(), lastID, batchSize)
		if err != nil {
			return res, err
		}
		if len(batch) == 0 {
			return res, nil
		}
		for _, cand := range batch {
			lastID = cand.ID
			res.Scanned++
			_, err := uc.Expire(ctx, cand.CompanyID, actor, cand.ID)
			switch {
			case err == nil:
				res.Expired++
			case domain.IsStateTransition(err), domain.IsValidation(err), errors.Is(err, domain.ErrNotFound):
				res.Skipped++
			default:
				res.Failed++
				uc.log.Error().Err(err).
					Int64("license_id", cand.ID).
					Str("company_id", cand.CompanyID).
					Msg("barrido: no se pudo vencer la licencia")
			}
		}
		uc.log.Info().
			Int("scanned", res.Scanned).
			Int("expired", res.Expired).
			Int("skipped", res.Skipped).
			Int("failed", res.Failed).
			Msg("barrido de vencimientos: lote procesado")
		if len(batch) < batchSize {
			return res, nil
		}
	}
}
