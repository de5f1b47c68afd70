package analytics

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go-worklog/internal/config"
	"go-worklog/internal/features/report"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ResultCache holds computed analytics for a short TTL. Any report write empties it.
type ResultCache struct {
	lru *expirable.LRU[string, any]

	mu  sync.Mutex
	gen uint64 // bumped by Purge
}

func NewResultCache(cfg *config.Config) *ResultCache {
	size := cfg.AnalyticsCacheSize
	if size <= 0 {
		size = 256
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, any](size, nil, cfg.AnalyticsCacheTTL),
	}
}

func (c *ResultCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *ResultCache) Store(key string, value any) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Generation identifies the current purge epoch. Results computed under an older
// generation must not be stored.
func (c *ResultCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// StoreAt stores value only if no purge happened since gen was read.
func (c *ResultCache) StoreAt(gen uint64, key string, value any) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.lru.Add(key, value)
	return true
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every cached result
func (c *ResultCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

// ReportChanged invalidates everything; a single report can move department, company and personal numbers.
func (c *ResultCache) ReportChanged(ctx context.Context, r report.Report) {
	c.Purge()
}

// cacheKey joins the full request tuple; the day is part of it so results roll over at midnight
type cacheKey struct {
	kind    string
	subject string
	period  Period
	scope   CompanyScope
	top     int
	day     string
}

func (k cacheKey) String() string {
	return strings.Join([]string{
		k.kind,
		strings.ToLower(strings.TrimSpace(k.subject)),
		string(k.period),
		string(k.scope),
		strconv.Itoa(k.top),
		k.day,
	}, "|")
}
