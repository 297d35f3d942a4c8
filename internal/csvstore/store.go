// Package csvstore appends quotes to a CSV file.
package csvstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"quotecollector/internal/provider"
)

// Store appends one row per quote to the file at Path. The header row is
// written only when the file does not exist yet.
type Store struct {
	path string
	log  logrus.FieldLogger
}

func New(path string, log logrus.FieldLogger) *Store {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Store{path: path, log: log}
}

func (s *Store) Path() string { return s.path }

// Append writes q as a single row. Failures wrap provider.ErrIO.
func (s *Store) Append(q provider.Quote) error {
	log := s.log.WithField("symbol", q.Symbol)
	if err := s.append(q); err != nil {
		log.WithError(err).Errorf("error writing data for %s to %s", q.Symbol, s.path)
		return err
	}
	log.Infof("Data for %s written to CSV.", q.Symbol)
	return nil
}

func (s *Store) append(q provider.Quote) (err error) {
	exists := true
	if _, err := os.Stat(s.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: stat %s: %w", provider.ErrIO, s.path, err)
		}
		exists = false
	}

	if !exists {
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("%w: create directory: %w", provider.ErrIO, err)
			}
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open: %w", provider.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", provider.ErrIO, cerr)
		}
	}()

	rows := []*provider.Quote{&q}
	if exists {
		err = gocsv.MarshalWithoutHeaders(rows, f)
	} else {
		err = gocsv.Marshal(rows, f)
	}
	if err != nil {
		return fmt.Errorf("%w: write: %w", provider.ErrIO, err)
	}
	return nil
}
