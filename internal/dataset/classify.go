package dataset

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// classify resolves a kind for content without an explicit one. Byte payloads
// classify by MIME and extension, strings by shape, structured trees are
// always json. KindURL is never inferred; callers assign it explicitly.
func classify(name string, content Content, mime string) Kind {
	switch content.kind {
	case ContentBytes:
		return classifyBytes(name, mime)
	case ContentText:
		return classifyText(content.text)
	default:
		return KindJSON
	}
}

func classifyBytes(name, mime string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case mime == "application/json" || ext == ".json":
		return KindJSON
	case mime == "text/csv" || ext == ".csv":
		return KindCSV
	case ext == ".xlsx":
		return KindDataset
	case ext == ".docx":
		return KindFile
	case ext == ".txt" || ext == ".md" || strings.HasPrefix(mime, "text/"):
		return KindText
	default:
		return KindFile
	}
}

func classifyText(s string) Kind {
	if strings.Contains(s, ",") && strings.Contains(s, "\n") {
		return KindCSV
	}
	if json.Valid([]byte(s)) {
		return KindJSON
	}
	return KindText
}
