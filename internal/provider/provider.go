package provider

import (
	"context"
	"time"
)

// TimestampLayout is the capture-time layout written to storage. It sorts
// lexically in chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp is the local capture time of a quote.
type Timestamp struct {
	time.Time
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Timestamp) MarshalCSV() (string, error) {
	return t.Format(TimestampLayout), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Timestamp) UnmarshalCSV(s string) error {
	v, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

func (t Timestamp) String() string { return t.Format(TimestampLayout) }

// Quote is a point-in-time snapshot of a stock's trading metrics.
// Field order is the storage column order.
type Quote struct {
	Timestamp        Timestamp `csv:"timestamp" json:"timestamp"`
	Symbol           string    `csv:"symbol" json:"symbol"`
	Open             float64   `csv:"open" json:"open"`
	High             float64   `csv:"high" json:"high"`
	Low              float64   `csv:"low" json:"low"`
	Price            float64   `csv:"price" json:"price"`
	Volume           int64     `csv:"volume" json:"volume"`
	LatestTradingDay string    `csv:"latest_trading_day" json:"latest_trading_day"`
	PreviousClose    float64   `csv:"previous_close" json:"previous_close"`
	Change           float64   `csv:"change" json:"change"`
	ChangePercent    string    `csv:"change_percent" json:"change_percent"`
}

// Provider fetches a single quote per call.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (Quote, error)
}
