// Package resolver produces the client record a dashboard renders. It reads
// row 2 of the master worksheet and, when anything on that path fails,
// returns the fixed demo record instead. Resolution never returns an error.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/joshsymonds/lexcura/internal/cache"
	"github.com/joshsymonds/lexcura/internal/config"
	"github.com/joshsymonds/lexcura/internal/credentials"
	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/sheets"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

const (
	headerRow = 1
	dataRow   = 2
	handleKey = "sheets"
)

// Config holds the values the resolver needs from the wider configuration.
type Config struct {
	SpreadsheetID   string
	DefaultClientID string
	// Worksheets are probed in order; the first one present is read.
	Worksheets   []string
	HandleTTL    time.Duration
	RecordTTL    time.Duration
	FetchTimeout time.Duration
}

// ConfigFrom extracts resolver settings from cfg.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		SpreadsheetID:   cfg.Spreadsheet.ID,
		Worksheets:      cfg.Spreadsheet.Worksheets(),
		DefaultClientID: cfg.Resolver.DefaultClientID,
		HandleTTL:       cfg.Cache.HandleTTL,
		RecordTTL:       cfg.Cache.RecordTTL,
		FetchTimeout:    cfg.Resolver.FetchTimeout,
	}
}

// CacheStats reports both caches.
type CacheStats struct {
	Handles cache.Stats `json:"handles"`
	Records cache.Stats `json:"records"`
}

// Resolver is the client data resolver. It is safe for concurrent use.
type Resolver struct {
	connector sheets.Connector
	creds     credentials.Source
	handles   cache.Cache[string, sheets.Client]
	records   cache.Cache[string, Resolution]
	logger    logger.Logger
	now       func() time.Time
	group     singleflight.Group
	cfg       Config

	// mu orders cache writes against Refresh. generation counts refreshes;
	// a fetch started under an older generation never writes a cache.
	mu         sync.Mutex
	generation uint64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithClock replaces time.Now for date defaults and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithRecordCache replaces the per-client record cache.
func WithRecordCache(c cache.Cache[string, Resolution]) Option {
	return func(r *Resolver) {
		r.records = c
	}
}

// WithHandleCache replaces the authenticated-handle cache.
func WithHandleCache(c cache.Cache[string, sheets.Client]) Option {
	return func(r *Resolver) {
		r.handles = c
	}
}

// New creates a Resolver. Missing worksheet names and default id fall back
// to the built-in defaults.
func New(cfg Config, connector sheets.Connector, creds credentials.Source, opts ...Option) *Resolver {
	if len(cfg.Worksheets) == 0 {
		cfg.Worksheets = []string{config.DefaultWorksheet}
	}
	if cfg.DefaultClientID == "" {
		cfg.DefaultClientID = models.DefaultClientID
	}

	r := &Resolver{
		cfg:       cfg,
		connector: connector,
		creds:     creds,
		logger:    logger.GetGlobalLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handles == nil {
		r.handles = cache.NewTTL[string, sheets.Client](cfg.HandleTTL)
	}
	if r.records == nil {
		r.records = cache.NewTTL[string, Resolution](cfg.RecordTTL)
	}
	return r
}

// Resolve returns the record for clientID. An empty id means the default id;
// any other id is used exactly as given.
func (r *Resolver) Resolve(ctx context.Context, clientID string) models.ClientRecord {
	return r.ResolveDetailed(ctx, clientID).Record
}

// ResolveDetailed returns the record together with where it came from.
// Results, fallbacks included, are cached per client id for the record
// window; concurrent misses for one id share a single fetch.
func (r *Resolver) ResolveDetailed(ctx context.Context, clientID string) Resolution {
	id := clientID
	if id == "" {
		id = r.cfg.DefaultClientID
	}

	if res, ok := r.records.Get(id); ok {
		res.Cached = true
		return res
	}

	gen := r.currentGeneration()

	// The shared fetch must not be cut short by whichever caller started it.
	// Calls after a Refresh never join a fetch started before it.
	shared := context.WithoutCancel(ctx)
	key := strconv.FormatUint(gen, 10) + "/" + id
	v, _, _ := r.group.Do(key, func() (any, error) {
		res := r.resolve(shared, id, gen)
		r.storeIfCurrent(gen, func() { r.records.Set(id, res) })
		return res, nil
	})
	return v.(Resolution)
}

// Refresh clears both caches so the next call re-authenticates and re-reads
// the sheet. Fetches already in flight still answer their callers but no
// longer populate either cache.
func (r *Resolver) Refresh() {
	r.mu.Lock()
	r.generation++
	r.records.Clear()
	r.handles.Clear()
	r.mu.Unlock()

	r.logger.Info("Caches cleared")
}

func (r *Resolver) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// storeIfCurrent runs set unless a Refresh happened since gen was read.
func (r *Resolver) storeIfCurrent(gen uint64, set func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != gen {
		return false
	}
	set()
	return true
}

// CacheStats returns statistics for the handle and record caches.
func (r *Resolver) CacheStats() CacheStats {
	return CacheStats{
		Handles: r.handles.Stats(),
		Records: r.records.Stats(),
	}
}

type janitor interface {
	Start()
	Stop()
}

// Start launches background expiry for caches that support it.
func (r *Resolver) Start() {
	for _, c := range []any{r.handles, r.records} {
		if j, ok := c.(janitor); ok {
			j.Start()
		}
	}
}

// Close stops background expiry started by Start.
func (r *Resolver) Close() {
	for _, c := range []any{r.handles, r.records} {
		if j, ok := c.(janitor); ok {
			j.Stop()
		}
	}
}

// resolve runs one uncached resolution.
func (r *Resolver) resolve(ctx context.Context, clientID string, gen uint64) (res Resolution) {
	now := r.now()
	log := r.logger.With("client_id", clientID)
	res = Resolution{
		ResolutionID: uuid.NewString(),
		ResolvedAt:   now,
	}

	defer func() {
		if p := recover(); p != nil {
			r.fallback(log, &res, now, fmt.Errorf("%w: panic: %v", errMalformed, p))
		}
	}()

	if r.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.FetchTimeout)
		defer cancel()
	}

	client, err := r.connect(ctx, log, gen)
	if err != nil {
		r.fallback(log, &res, now, err)
		return res
	}

	worksheet, headers, row, err := r.fetch(ctx, client)
	if err != nil {
		if errors.Is(err, sheets.ErrAuthenticationRejected) {
			r.storeIfCurrent(gen, func() { r.handles.Delete(handleKey) })
		}
		r.fallback(log, &res, now, err)
		return res
	}

	res.Record = models.FromValues(models.Zip(headers, row), clientID, now)
	res.Source = SourceLive
	res.Worksheet = worksheet
	log.Debug("Resolved client record",
		"resolution_id", res.ResolutionID,
		"worksheet", worksheet,
		"columns", len(headers))
	return res
}

// connect returns the cached spreadsheet handle or authenticates a new one.
// Failures are not cached, and neither is a handle authenticated before the
// latest Refresh.
func (r *Resolver) connect(ctx context.Context, log logger.Logger, gen uint64) (sheets.Client, error) {
	if client, ok := r.handles.Get(handleKey); ok {
		return client, nil
	}

	creds, err := r.creds.Load(ctx)
	if err != nil {
		return nil, err
	}

	client, err := r.connector.Connect(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("connecting to spreadsheet service: %w", err)
	}
	if client == nil {
		return nil, errors.New("connecting to spreadsheet service: no client returned")
	}

	if r.storeIfCurrent(gen, func() { r.handles.Set(handleKey, client) }) {
		log.Debug("Authenticated spreadsheet client")
	}
	return client, nil
}

// fetch opens the workbook, picks the worksheet and reads rows 1 and 2.
func (r *Resolver) fetch(ctx context.Context, client sheets.Client) (string, []string, []string, error) {
	wb, err := client.OpenWorkbook(ctx, r.cfg.SpreadsheetID)
	if err != nil {
		return "", nil, nil, err
	}

	worksheet, err := r.pickWorksheet(wb)
	if err != nil {
		return "", nil, nil, err
	}

	headers, err := wb.RowValues(ctx, worksheet, headerRow)
	if err != nil {
		return "", nil, nil, err
	}
	if len(headers) == 0 {
		return "", nil, nil, fmt.Errorf("%w: worksheet %q has no header row", errMalformed, worksheet)
	}

	row, err := wb.RowValues(ctx, worksheet, dataRow)
	if err != nil {
		return "", nil, nil, err
	}

	return worksheet, headers, row, nil
}

// pickWorksheet returns the first configured name the workbook contains.
func (r *Resolver) pickWorksheet(wb sheets.Workbook) (string, error) {
	for i, name := range r.cfg.Worksheets {
		if !sheets.HasWorksheet(wb, name) {
			continue
		}
		if i > 0 {
			r.logger.Info("Using legacy worksheet name",
				"worksheet", name,
				"canonical", r.cfg.Worksheets[0])
		}
		return name, nil
	}
	return "", fmt.Errorf("%w: none of %q in workbook %q", sheets.ErrWorksheetNotFound, r.cfg.Worksheets, wb.Title())
}

// fallback turns res into a demo-record resolution and logs why.
func (r *Resolver) fallback(log logger.Logger, res *Resolution, now time.Time, err error) {
	res.Record = models.DemoRecord(now)
	res.Source = SourceFallback
	res.Reason = classify(err)
	res.Err = err
	res.Message = err.Error()
	res.Worksheet = ""

	log.Warn("Live data unavailable",
		"resolution_id", res.ResolutionID,
		"reason", string(res.Reason),
		"error", err)
}
