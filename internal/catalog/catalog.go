package catalog

import (
	"context"

	"autopartes/internal/model"
)

// Upserter stores imported products keyed by codigo.
type Upserter interface {
	UpsertByCodigo(ctx context.Context, products []model.Product) error
}

// RowError describes a feed line that could not be parsed.
type RowError struct {
	Key     string `json:"key,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Feed is the parsed content of one catalogue feed.
type Feed struct {
	Key      string
	Products []model.Product
	Errors   []RowError
}

// Result summarises an import run.
type Result struct {
	Files    int        `json:"files"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}
