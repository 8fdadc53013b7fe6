package services

import (
	"fmt"

	"github.com/caseforge/storefront/services/storefront-service/models"
)

// CasePrice returns the price in cents of a configuration: the base price
// plus material and finish surcharges. Unset options price as the default.
func CasePrice(cfg *models.Configuration) (int64, error) {
	total := models.BasePrice

	if cfg.Material != nil {
		opt, ok := models.FindOption(models.Materials, *cfg.Material)
		if !ok {
			return 0, fmt.Errorf("unknown material %q", *cfg.Material)
		}
		total += opt.Price
	}
	if cfg.Finish != nil {
		opt, ok := models.FindOption(models.Finishes, *cfg.Finish)
		if !ok {
			return 0, fmt.Errorf("unknown finish %q", *cfg.Finish)
		}
		total += opt.Price
	}
	return total, nil
}
