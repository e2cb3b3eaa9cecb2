package analysis

// Result is implemented by every engine result type. Ledger records and
// agents carry results through this interface; consumers switch on the
// concrete type (the set is closed within this module) or render the shared
// Markdown form.
type Result interface {
	// Kind names the producing engine, e.g. "anomaly.zscore" or "quality".
	Kind() string
	// Markdown renders the result as a sectioned report for chat display.
	Markdown() string
}
