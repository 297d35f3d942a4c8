package alphavantage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"quotecollector/internal/provider"
)

// Labels of the global quote payload. "01. symbol" is echoed back by the
// API and deliberately not read: the requested symbol is recorded instead.
const (
	LabelOpen             = "02. open"
	LabelHigh             = "03. high"
	LabelLow              = "04. low"
	LabelPrice            = "05. price"
	LabelVolume           = "06. volume"
	LabelLatestTradingDay = "07. latest trading day"
	LabelPreviousClose    = "08. previous close"
	LabelChange           = "09. change"
	LabelChangePercent    = "10. change percent"
)

// MapGlobalQuote maps a decoded global quote payload onto a quote stamped
// with at. Missing numeric labels default to 0 and missing text labels to
// the empty string. A present value that does not coerce fails the whole
// quote with a *provider.ParseError.
func MapGlobalQuote(payload map[string]any, symbol string, at time.Time) (provider.Quote, error) {
	q := provider.Quote{
		Timestamp:        provider.Timestamp{Time: at},
		Symbol:           symbol,
		LatestTradingDay: textField(payload, LabelLatestTradingDay),
		ChangePercent:    textField(payload, LabelChangePercent),
	}

	floats := []struct {
		label string
		dst   *float64
	}{
		{LabelOpen, &q.Open},
		{LabelHigh, &q.High},
		{LabelLow, &q.Low},
		{LabelPrice, &q.Price},
		{LabelPreviousClose, &q.PreviousClose},
		{LabelChange, &q.Change},
	}
	for _, f := range floats {
		v, err := floatField(payload, f.label)
		if err != nil {
			return provider.Quote{}, err
		}
		*f.dst = v
	}

	volume, err := intField(payload, LabelVolume)
	if err != nil {
		return provider.Quote{}, err
	}
	q.Volume = volume

	return q, nil
}

func floatField(payload map[string]any, label string) (float64, error) {
	v, ok := payload[label]
	if !ok {
		return 0, nil
	}

	var s string
	switch x := v.(type) {
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		return x, nil
	default:
		return 0, &provider.ParseError{Field: label, Value: v, Err: fmt.Errorf("unexpected type %T", v)}
	}

	f, err := parseDecimal(s)
	if err != nil {
		return 0, &provider.ParseError{Field: label, Value: v, Err: err}
	}
	return f, nil
}

// parseDecimal parses decimal text only. strconv.ParseFloat also takes
// hexadecimal floats such as "0x1p3", which the API never sends.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("invalid syntax %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

func intField(payload map[string]any, label string) (int64, error) {
	v, ok := payload[label]
	if !ok {
		return 0, nil
	}

	switch x := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, &provider.ParseError{Field: label, Value: v, Err: err}
		}
		return n, nil
	case json.Number:
		// JSON numbers truncate toward zero, quoted text must be integral.
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, &provider.ParseError{Field: label, Value: v, Err: err}
		}
		return truncateInt(label, v, f)
	case float64:
		return truncateInt(label, v, x)
	default:
		return 0, &provider.ParseError{Field: label, Value: v, Err: fmt.Errorf("unexpected type %T", v)}
	}
}

// truncateInt converts f toward zero when the result fits in an int64.
func truncateInt(label string, v any, f float64) (int64, error) {
	// float64(math.MaxInt64) rounds up to 2^63, which is itself out of range.
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &provider.ParseError{Field: label, Value: v, Err: fmt.Errorf("%v out of int64 range", f)}
	}
	return int64(f), nil
}

func textField(payload map[string]any, label string) string {
	switch x := payload[label].(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
