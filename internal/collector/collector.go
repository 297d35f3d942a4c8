// Package collector runs passes over a symbol list, fetching each quote and
// appending it to storage, once or on a polling schedule.
package collector

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"quotecollector/internal/provider"
)

// Appender persists a single quote.
type Appender interface {
	Append(q provider.Quote) error
}

// PassResult lists the symbols written and skipped by one pass, in order.
type PassResult struct {
	Written []string
	Skipped []string
}

// Collector fetches every configured symbol in order and appends the
// quotes. A failing symbol is skipped; the pass always continues.
type Collector struct {
	provider provider.Provider
	store    Appender
	symbols  []string
	log      logrus.FieldLogger
}

func New(p provider.Provider, store Appender, symbols []string, log logrus.FieldLogger) *Collector {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Collector{
		provider: p,
		store:    store,
		symbols:  append([]string(nil), symbols...),
		log:      log,
	}
}

// RunPass performs one pass over the symbol list.
func (c *Collector) RunPass(ctx context.Context) PassResult {
	c.log.Info("Starting data collection job for multiple stocks...")

	var res PassResult
	for _, symbol := range c.symbols {
		if err := c.collect(ctx, symbol); err != nil {
			c.log.WithFields(logrus.Fields{
				"symbol": symbol,
				"stage":  stage(err),
			}).Warnf("skipped %s this pass", symbol)
			res.Skipped = append(res.Skipped, symbol)
			continue
		}
		res.Written = append(res.Written, symbol)
	}

	c.log.WithFields(logrus.Fields{
		"written": len(res.Written),
		"skipped": len(res.Skipped),
	}).Info("Job finished.")
	return res
}

// RunOnce is batch mode: a single pass.
func (c *Collector) RunOnce(ctx context.Context) PassResult {
	return c.RunPass(ctx)
}

// RunScheduled is scheduled mode: a pass now and then one per interval of
// p until ctx is canceled.
func (c *Collector) RunScheduled(ctx context.Context, p *Poller) error {
	return p.Run(ctx, func(ctx context.Context) { c.RunPass(ctx) })
}

func (c *Collector) collect(ctx context.Context, symbol string) error {
	q, err := c.provider.Fetch(ctx, symbol)
	if err != nil {
		return err
	}
	return c.store.Append(q)
}

func stage(err error) string {
	switch {
	case errors.Is(err, provider.ErrIO):
		return "append"
	case errors.Is(err, provider.ErrEmptyQuote), errors.Is(err, provider.ErrParse):
		return "parse"
	default:
		return "fetch"
	}
}
