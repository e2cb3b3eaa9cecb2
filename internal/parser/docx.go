package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var xmlTagRE = regexp.MustCompile(`<[^>]+>`)

// ExtractDOCX pulls the plain text out of a .docx payload. DOCX is a zip
// archive; the body lives in word/document.xml. Paragraph closes become
// newlines, then tags are stripped and whitespace normalized.
func ExtractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	docXML := readZipFile(zr, "word/document.xml")
	if len(docXML) == 0 {
		return "", fmt.Errorf("document.xml not found in docx")
	}
	withBreaks := strings.ReplaceAll(string(docXML), "</w:p>", "</w:p>\n")
	text := xmlTagRE.ReplaceAllString(withBreaks, "")
	return NormalizeText(text), nil
}
