package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

// Kind classifies an ingested item.
type Kind string

const (
	KindFile    Kind = "file"
	KindText    Kind = "text"
	KindURL     Kind = "url"
	KindJSON    Kind = "json"
	KindCSV     Kind = "csv"
	KindDataset Kind = "dataset"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFile, KindText, KindURL, KindJSON, KindCSV, KindDataset:
		return true
	}
	return false
}

// ContentKind discriminates the three payload variants.
type ContentKind uint8

const (
	ContentBytes ContentKind = iota
	ContentText
	ContentStructured
)

// Content is an immutable payload: raw bytes, a string, or a decoded
// JSON-like tree. Use the accessors; the zero value is empty bytes.
type Content struct {
	kind  ContentKind
	bytes []byte
	text  string
	tree  any
}

// BytesContent wraps a raw byte payload.
func BytesContent(b []byte) Content { return Content{kind: ContentBytes, bytes: b} }

// TextContent wraps a string payload.
func TextContent(s string) Content { return Content{kind: ContentText, text: s} }

// StructuredContent wraps an already-decoded JSON-like tree.
func StructuredContent(tree any) Content { return Content{kind: ContentStructured, tree: tree} }

// Kind returns the payload variant.
func (c Content) Kind() ContentKind { return c.kind }

// Bytes returns the byte payload when the content holds one.
func (c Content) Bytes() ([]byte, bool) {
	if c.kind != ContentBytes {
		return nil, false
	}
	return c.bytes, true
}

// Text returns the string payload when the content holds one.
func (c Content) Text() (string, bool) {
	if c.kind != ContentText {
		return "", false
	}
	return c.text, true
}

// Structured returns the decoded tree when the content holds one.
func (c Content) Structured() (any, bool) {
	if c.kind != ContentStructured {
		return nil, false
	}
	return c.tree, true
}

// Metadata describes an item without touching its payload. ParseError is a
// diagnostic set only when parsing was attempted and failed.
type Metadata struct {
	Size       int
	UploadedAt time.Time
	MIME       string
	Parsed     bool
	Schema     string
	ParseError string
}

// Structure tags the shape of a parsed view.
type Structure string

const (
	StructureTabular Structure = "tabular"
	StructureArray   Structure = "array"
	StructureObject  Structure = "object"
	StructureText    Structure = "text"
)

// ParsedView is the normalized projection of an item. Numbers holds finite
// values only; non-finite values are filtered at extraction.
type ParsedView struct {
	Numbers   []float64
	Table     *parser.Table
	Text      string
	JSON      any
	Structure Structure
}

// Item is one ingested artifact. Items are immutable after creation; View is
// nil exactly when parsing failed or was never attempted.
type Item struct {
	ID       string
	Name     string
	Kind     Kind
	Content  Content
	Metadata Metadata
	View     *ParsedView
}

// Parsed reports whether the item carries a parsed view.
func (it *Item) Parsed() bool { return it.View != nil }

// Numbers returns the item's numeric sequence, nil when there is none.
func (it *Item) Numbers() []float64 {
	if it.View == nil {
		return nil
	}
	return it.View.Numbers
}

// Table returns the item's tabular view, nil when there is none.
func (it *Item) Table() *parser.Table {
	if it.View == nil {
		return nil
	}
	return it.View.Table
}

// Option adjusts ingestion of a single item.
type Option func(*options)

type options struct {
	kind   Kind
	id     string
	mime   string
	schema string
}

// WithKind forces the item kind, bypassing classification.
func WithKind(k Kind) Option { return func(o *options) { o.kind = k } }

// WithID overrides the generated id.
func WithID(id string) Option { return func(o *options) { o.id = id } }

// WithMIME supplies a MIME hint consulted during classification.
func WithMIME(mime string) Option { return func(o *options) { o.mime = mime } }

// WithSchema attaches a schema hint to the item metadata.
func WithSchema(schema string) Option { return func(o *options) { o.schema = schema } }

// New ingests one artifact: classify (unless a kind is forced), size, then
// best-effort parse. A parse failure degrades to an unparsed item with the
// diagnostic recorded in the metadata; New never fails.
func New(name string, content Content, opts ...Option) *Item {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	kind := o.kind
	if kind == "" {
		kind = classify(name, content, o.mime)
	}
	now := time.Now()
	id := o.id
	if id == "" {
		id = newID(now)
	}
	it := &Item{
		ID:      id,
		Name:    name,
		Kind:    kind,
		Content: content,
		Metadata: Metadata{
			Size:       contentSize(content),
			UploadedAt: now,
			MIME:       o.mime,
			Schema:     o.schema,
		},
	}
	view, err := parse(kind, name, content)
	if err != nil {
		it.Metadata.ParseError = err.Error()
		return it
	}
	if view != nil {
		it.View = view
		it.Metadata.Parsed = true
	}
	return it
}

// contentSize is byte length for bytes, rune count for text, and the length
// of the JSON serialization for structured trees.
func contentSize(c Content) int {
	switch c.kind {
	case ContentBytes:
		return len(c.bytes)
	case ContentText:
		return len([]rune(c.text))
	default:
		b, err := json.Marshal(c.tree)
		if err != nil {
			return 0
		}
		return len(b)
	}
}

// newID builds a collision-resistant token from wall-clock millis plus a
// random suffix. Uniqueness is a soft invariant; callers may override.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("item-%s-%s", strconv.FormatInt(now.UnixMilli(), 36), suffix)
}
