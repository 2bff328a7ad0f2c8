// Package source acquires raw sales rows for the engine. A source produces
// header-keyed string maps; it knows nothing about the canonical record
// shape, and the engine does not care which source the rows came from.
package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// RawRow is one input row keyed by header name, values as raw strings.
// An alias, so row sets flow into the engine's normalizer without copying.
type RawRow = map[string]string

// Source supplies a complete raw row set in one batch.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRow, error)
}

// requiredHeaders must all be present (case-insensitive, trimmed) in a
// usable row set. Missing ones make the attempt terminal for that source.
var requiredHeaders = []string{"DIVISION", "BRAND", "BRANCH NAME", "ITEM DESCRIPTION"}

func validateHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToUpper(strings.TrimSpace(h))] = true
	}
	var missing []string
	for _, want := range requiredHeaders {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Chain tries each source in order and returns the first successful row set.
// The error on total failure lists every attempt.
type Chain []Source

func (c Chain) Name() string { return "chain" }

func (c Chain) Fetch(ctx context.Context) ([]RawRow, error) {
	if len(c) == 0 {
		return nil, errors.New("source chain is empty")
	}
	var attempts []error
	for _, s := range c {
		rows, err := s.Fetch(ctx)
		if err == nil {
			log.Printf("source %s: loaded %d rows", s.Name(), len(rows))
			return rows, nil
		}
		log.Printf("source %s failed: %v", s.Name(), err)
		attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, fmt.Errorf("all sources failed: %w", errors.Join(attempts...))
}
