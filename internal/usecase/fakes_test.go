package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
)

type extractResult struct {
	listings []entity.RawListing
	err      error
}

// scriptedExtractor returns results in call order; calls beyond the script yield no listings.
type scriptedExtractor struct {
	mu      sync.Mutex
	results []extractResult
	urls    []string
}

func (e *scriptedExtractor) Extract(_ context.Context, searchURL string) ([]entity.RawListing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := len(e.urls)
	e.urls = append(e.urls, searchURL)
	if i >= len(e.results) {
		return nil, nil
	}
	return e.results[i].listings, e.results[i].err
}

func (e *scriptedExtractor) Name() string { return "scripted" }

func (e *scriptedExtractor) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.urls)
}

type catalogKey struct{ name, series, category string }

type memoryCatalog struct {
	mu        sync.Mutex
	entries   map[catalogKey]*entity.CatalogEntry
	findErr   error
	createErr error
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{entries: map[catalogKey]*entity.CatalogEntry{}}
}

func (c *memoryCatalog) FindByKey(_ context.Context, name, series, category string) (*entity.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findErr != nil {
		return nil, c.findErr
	}
	e, ok := c.entries[catalogKey{name, series, category}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (c *memoryCatalog) Create(_ context.Context, entry *entity.CatalogEntry) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return false, c.createErr
	}
	key := catalogKey{entry.Name, entry.Series, entry.Category}
	if existing, ok := c.entries[key]; ok {
		entry.ID = existing.ID
		return false, nil
	}
	entry.ID = uuid.New()
	cp := *entry
	c.entries[key] = &cp
	return true, nil
}

func (c *memoryCatalog) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type memoryPrices struct {
	mu   sync.Mutex
	rows []*entity.PriceObservation
	err  error
}

func (p *memoryPrices) Insert(_ context.Context, obs *entity.PriceObservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	obs.ID = uuid.New()
	p.rows = append(p.rows, obs)
	return nil
}

func (p *memoryPrices) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rows)
}

type memorySources struct {
	source *entity.MarketplaceSource
	err    error
}

func (s *memorySources) GetOrCreate(_ context.Context, name, baseURL string) (*entity.MarketplaceSource, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.source == nil {
		s.source = &entity.MarketplaceSource{ID: uuid.New(), Name: name, BaseURL: baseURL, IsActive: true}
	}
	return s.source, nil
}

type recordingSender struct {
	mu     sync.Mutex
	emails []repository.Email
	err    error
}

func (s *recordingSender) Send(_ context.Context, email repository.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, email)
	return s.err
}

func (s *recordingSender) sent() []repository.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Email(nil), s.emails...)
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, repository.Email) error {
	panic("mail transport exploded")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type memoryLock struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	released int
}

func (l *memoryLock) Acquire(_ context.Context, key string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return "", repository.ErrLockHeld
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, nil
}

func (l *memoryLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != token {
		return errors.New("lock token mismatch")
	}
	delete(l.held, key)
	l.released++
	return nil
}
