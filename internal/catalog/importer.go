package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autopartes/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is the number of products sent per upsert batch.
const DefaultBatchSize = 500

// maxReportedErrors bounds the row errors returned in a Result.
const maxReportedErrors = 100

// Importer loads catalogue feeds from object storage and upserts them.
type Importer struct {
	store     storage.Store
	products  Upserter
	batchSize int
	logger    zerolog.Logger
	now       func() time.Time
}

// NewImporter creates a catalogue importer.
func NewImporter(store storage.Store, products Upserter, logger zerolog.Logger) *Importer {
	return &Importer{
		store:     store,
		products:  products,
		batchSize: DefaultBatchSize,
		logger:    logger.With().Str("component", "catalog-importer").Logger(),
		now:       time.Now,
	}
}

// Load reads and parses the feed stored under key.
func (i *Importer) Load(ctx context.Context, key string) (*Feed, error) {
	i.logger.Info().Str("key", key).Msg("loading catalogue feed")

	body, err := i.store.Get(ctx, key)
	if err != nil {
		i.logger.Error().Err(err).Str("key", key).Msg("failed to open catalogue feed")
		return nil, fmt.Errorf("failed to open catalogue feed %s: %w", key, err)
	}
	defer body.Close()

	products, rowErrors, err := Parse(ctx, body)
	if err != nil {
		i.logger.Error().Err(err).Str("key", key).Msg("failed to parse catalogue feed")
		return nil, fmt.Errorf("failed to parse catalogue feed %s: %w", key, err)
	}
	for k := range rowErrors {
		rowErrors[k].Key = key
	}

	i.logger.Info().
		Str("key", key).
		Int("products", len(products)).
		Int("row_errors", len(rowErrors)).
		Msg("catalogue feed loaded")

	return &Feed{Key: key, Products: products, Errors: rowErrors}, nil
}

// Import loads all feeds concurrently, then upserts their products in feed
// order, so a later feed wins for a repeated codigo. actor is recorded as
// created_by/updated_by. Any feed failing to load aborts before writing.
func (i *Importer) Import(ctx context.Context, keys []string, actor string) (*Result, error) {
	type loadResult struct {
		index int
		feed  *Feed
		err   error
	}

	resultChan := make(chan loadResult, len(keys))
	var wg sync.WaitGroup

	for idx, key := range keys {
		wg.Add(1)
		go func(index int, key string) {
			defer wg.Done()

			feed, err := i.Load(ctx, key)
			resultChan <- loadResult{index: index, feed: feed, err: err}
		}(idx, key)
	}

	wg.Wait()
	close(resultChan)

	feeds := make([]*Feed, len(keys))
	for result := range resultChan {
		if result.err != nil {
			return nil, result.err
		}
		feeds[result.index] = result.feed
	}

	result := &Result{Files: len(feeds)}
	now := i.now()

	for _, feed := range feeds {
		for start := 0; start < len(feed.Products); start += i.batchSize {
			end := min(start+i.batchSize, len(feed.Products))
			batch := feed.Products[start:end]

			for j := range batch {
				batch[j].ID = uuid.NewString()
				batch[j].CreatedBy = actor
				batch[j].UpdatedBy = actor
				batch[j].CreatedAt = now
				batch[j].UpdatedAt = now
			}

			if err := i.products.UpsertByCodigo(ctx, batch); err != nil {
				i.logger.Error().
					Err(err).
					Str("key", feed.Key).
					Int("imported", result.Imported).
					Msg("failed to upsert catalogue batch")
				return result, fmt.Errorf("failed to import %s: %w", feed.Key, err)
			}
			result.Imported += len(batch)
		}

		result.Skipped += len(feed.Errors)
		for _, rowErr := range feed.Errors {
			if len(result.Errors) == maxReportedErrors {
				break
			}
			result.Errors = append(result.Errors, rowErr)
		}
	}

	i.logger.Info().
		Int("files", result.Files).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Str("actor", actor).
		Msg("catalogue import completed")

	return result, nil
}
