package spreadsheet

import (
	"fmt"
	"regexp"

	"compliance-service/internal/models"
)

// BatchSize is the fixed cardinality of an upload: labels 1.1 through 1.18.
const BatchSize = 18

var labelPattern = regexp.MustCompile(`^1\.(1[0-8]|[1-9])$`)

// ValidateBatch enforces the fixed-cardinality, fixed-labeling contract of a
// sample batch before anything is persisted. Each label must individually
// match 1.1–1.18; duplicate labels are not rejected, matching the historical
// behavior of the upload pipeline.
func ValidateBatch(samples []models.Sample) error {
	if len(samples) != BatchSize {
		return fmt.Errorf("El archivo debe contener exactamente 18 muestras")
	}

	for _, sample := range samples {
		if !labelPattern.MatchString(sample.SampleLabel) {
			return fmt.Errorf("etiqueta de muestra inválida: %q (se espera 1.1 a 1.18)", sample.SampleLabel)
		}
	}

	return nil
}
