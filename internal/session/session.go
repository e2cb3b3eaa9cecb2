package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
)

const defaultRecentResults = 5

// Record is one completed analysis: who ran, what was asked, what came back.
// The ledger is append-only; individual records are never mutated or deleted.
type Record struct {
	Agent  string
	Query  string
	Result analysis.Result
	Time   time.Time
}

// Session owns the ingested items, the analysis ledger, and the listener set
// for one running process. It is deliberately unsynchronized: a session has a
// single owner and hosts serialize mutating calls (the watcher, for example,
// funnels every ingest through one goroutine).
type Session struct {
	log *zap.Logger

	items  []*dataset.Item
	byID   map[string]*dataset.Item
	active []string

	records          []Record
	lastAgent        string
	lastAnalysisType string

	listeners    []listener
	nextListener int

	previewTokens int
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger routes session diagnostics to the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithPreviewTokens sets the per-item token budget for agent-context
// previews.
func WithPreviewTokens(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.previewTokens = limit
		}
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		log:           zap.NewNop(),
		byID:          make(map[string]*dataset.Item),
		previewTokens: defaultPreviewTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest classifies and parses raw content into an item, stores it, and
// returns the new id. Parse failures degrade to unparsed items; Ingest never
// fails.
func (s *Session) Ingest(name string, content dataset.Content, opts ...dataset.Option) string {
	it := dataset.New(name, content, opts...)
	s.Add(it)
	return it.ID
}

// Add stores a pre-built item. Items of kind csv, json, or dataset join the
// active-dataset list; listeners are notified after the item is stored,
// whether or not it parsed.
func (s *Session) Add(it *dataset.Item) {
	s.items = append(s.items, it)
	s.byID[it.ID] = it
	switch it.Kind {
	case dataset.KindCSV, dataset.KindJSON, dataset.KindDataset:
		s.active = append(s.active, it.ID)
	}
	s.log.Debug("item stored",
		zap.String("id", it.ID),
		zap.String("name", it.Name),
		zap.String("kind", string(it.Kind)),
		zap.Bool("parsed", it.Parsed()))
	s.notify(Event{Kind: EventIngest, Item: it})
}

// Items returns every stored item in storage order.
func (s *Session) Items() []*dataset.Item {
	return append([]*dataset.Item(nil), s.items...)
}

// Item looks up one item by id.
func (s *Session) Item(id string) (*dataset.Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// ItemsByKind returns the stored items of one kind, storage order.
func (s *Session) ItemsByKind(kind dataset.Kind) []*dataset.Item {
	var out []*dataset.Item
	for _, it := range s.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// ActiveDatasets returns the ids of csv/json/dataset items in ingestion
// order.
func (s *Session) ActiveDatasets() []string {
	return append([]string(nil), s.active...)
}

// RemoveItem deletes an item and purges its active-dataset entry. Returns
// false when the id is unknown.
func (s *Session) RemoveItem(id string) bool {
	it, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	kept := s.items[:0]
	for _, cur := range s.items {
		if cur.ID != id {
			kept = append(kept, cur)
		}
	}
	s.items = kept
	activeKept := s.active[:0]
	for _, cur := range s.active {
		if cur != id {
			activeKept = append(activeKept, cur)
		}
	}
	s.active = activeKept
	s.log.Debug("item removed", zap.String("id", id))
	s.notify(Event{Kind: EventRemove, Item: it})
	return true
}

// Clear empties the session: items, ledger, active datasets, and session
// info. Listeners stay registered.
func (s *Session) Clear() {
	s.items = nil
	s.byID = make(map[string]*dataset.Item)
	s.active = nil
	s.records = nil
	s.lastAgent = ""
	s.lastAnalysisType = ""
	s.log.Debug("session cleared")
	s.notify(Event{Kind: EventClear})
}

// RecordResult appends one completed analysis to the ledger and updates the
// session bookkeeping.
func (s *Session) RecordResult(agent, query string, result analysis.Result) {
	rec := Record{Agent: agent, Query: query, Result: result, Time: time.Now()}
	s.records = append(s.records, rec)
	s.lastAgent = agent
	if result != nil {
		s.lastAnalysisType = result.Kind()
	}
	s.log.Debug("result recorded", zap.String("agent", agent), zap.String("query", query))
	s.notify(Event{Kind: EventResult, Agent: agent})
}

// RecentResults returns up to limit ledger entries, newest first. A limit of
// zero or less means 5.
func (s *Session) RecentResults(limit int) []Record {
	if limit <= 0 {
		limit = defaultRecentResults
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out
}

// ResultCount returns the ledger length.
func (s *Session) ResultCount() int { return len(s.records) }
