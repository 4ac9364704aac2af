package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RoundScore rounds a score to one decimal place, the report's display
// precision.
func RoundScore(f float64) float64 {
	return math.Round(f*10) / 10
}

// FormatScore formats a score with one decimal and no exponent.
func FormatScore(f float64) string {
	return strconv.FormatFloat(RoundScore(f), 'f', 1, 64)
}

// FormatFloat formats a float to at most six decimals with trailing
// zeros removed, for stable display of averages and weights.
func FormatFloat(f float64) string {
	rounded := math.Round(f*1e6) / 1e6
	str := strconv.FormatFloat(rounded, 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimRight(str, ".")
}

// EncodeJSON renders a report as indented JSON with stable key order.
// encoding/json already sorts map keys and struct fields are emitted in
// declaration order, so identical reports encode identically.
func EncodeJSON(r *QualityReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
