package handlers

import (
	"screensaver-bot/internal/cleanup"
	"screensaver-bot/internal/database"
	"screensaver-bot/internal/ingest"
	"screensaver-bot/internal/media"
)

type Handlers struct {
	db        *database.Database
	store     *media.Store
	fetcher   *ingest.Fetcher
	cleaner   *cleanup.Runner
	processor *ingest.Processor
}

func New(db *database.Database, store *media.Store, fetcher *ingest.Fetcher, cleaner *cleanup.Runner, processor *ingest.Processor) *Handlers {
	return &Handlers{
		db:        db,
		store:     store,
		fetcher:   fetcher,
		cleaner:   cleaner,
		processor: processor,
	}
}
