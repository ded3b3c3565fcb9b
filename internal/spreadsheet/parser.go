package spreadsheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"compliance-service/internal/models"
)

// Expected column names in the uploaded sheet.
const (
	ColMuestra          = "muestra"
	ColFechaMuestra     = "fecha_muestra"
	ColHoraMuestra      = "hora_muestra"
	ColTiempoMuestreo   = "tiempo_muestreo"
	ColConcentracion    = "concentracion"
	ColU                = "u"
	ColUFactorCobertura = "u_factor_cobertura"
	ColNorma            = "norma"
)

// Spanish meridiem markers ("a.m.", "a. m.", "P.M.", ...) normalized to AM/PM
// before the strict 12-hour parse.
var meridiemPattern = regexp.MustCompile(`(?i)([ap])\s*\.?\s*m\s*\.?\s*$`)

// ParseRow converts one raw row into a typed Sample. Any field failure aborts
// with an error naming the field and the row's muestra label; the caller
// treats that as fatal to the whole batch.
func ParseRow(row Row) (models.Sample, error) {
	label := strings.TrimSpace(row[ColMuestra])

	sampleDate, err := normalizeDate(row[ColFechaMuestra])
	if err != nil {
		return models.Sample{}, fmt.Errorf("muestra %q: campo %s: %w", label, ColFechaMuestra, err)
	}

	sampleTime, err := normalizeTime(row[ColHoraMuestra])
	if err != nil {
		return models.Sample{}, fmt.Errorf("muestra %q: campo %s: %w", label, ColHoraMuestra, err)
	}

	sample := models.Sample{
		SampleLabel: label,
		SampleDate:  sampleDate,
		SampleTime:  sampleTime,
	}

	numericFields := []struct {
		column string
		dest   *float64
	}{
		{ColTiempoMuestreo, &sample.SamplingDurationMinutes},
		{ColConcentracion, &sample.Concentration},
		{ColU, &sample.Uncertainty},
		{ColUFactorCobertura, &sample.CoverageFactor},
		{ColNorma, &sample.NormValue},
	}
	for _, field := range numericFields {
		value, err := parseDecimal(row[field.column])
		if err != nil {
			return models.Sample{}, fmt.Errorf("muestra %q: campo %s: %w", label, field.column, err)
		}
		*field.dest = value
	}

	return sample, nil
}

// normalizeDate turns DD/MM/YYYY into zero-padded YYYY-MM-DD. Month must be
// 1-12 and day 1-31; there is intentionally no month-length or leap-year
// check, matching the historical behavior of stored data.
func normalizeDate(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("fecha inválida %q: se espera DD/MM/YYYY", raw)
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("fecha inválida %q: día no numérico", raw)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("fecha inválida %q: mes no numérico", raw)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", fmt.Errorf("fecha inválida %q: año no numérico", raw)
	}

	if month < 1 || month > 12 {
		return "", fmt.Errorf("fecha inválida %q: mes fuera de rango", raw)
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("fecha inválida %q: día fuera de rango", raw)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// normalizeTime parses "h:mm:ss AM/PM" (including Spanish "a. m."/"p. m."
// variants) into 24-hour HH:mm:ss.
func normalizeTime(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	normalized = meridiemPattern.ReplaceAllStringFunc(normalized, func(m string) string {
		sub := meridiemPattern.FindStringSubmatch(m)
		return strings.ToUpper(sub[1]) + "M"
	})
	// Collapse the gap between digits and the meridiem to a single space.
	if idx := strings.IndexAny(normalized, " \t"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx]) + " " + strings.TrimSpace(normalized[idx:])
	}

	parsed, err := time.Parse("3:04:05 PM", normalized)
	if err != nil {
		return "", fmt.Errorf("hora inválida %q (normalizada a %q)", raw, normalized)
	}

	return parsed.Format("15:04:05"), nil
}

// parseDecimal accepts decimal-comma as well as decimal-point input and
// requires a finite result.
func parseDecimal(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("valor numérico inválido %q", raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("valor numérico no finito %q", raw)
	}
	return value, nil
}
