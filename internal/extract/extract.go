// Package extract turns uploaded job descriptions into plain text for the readiness engine.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF      = "application/pdf"
	mimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePlain    = "text/plain"
	mimeMarkdown = "text/markdown"
	mimeZip      = "application/zip"

	docxBodyPath = "word/document.xml"

	// Upper bound on the inflated document.xml; a job description is far smaller.
	maxDocxBodyBytes = 16 << 20
)

// ErrUnsupportedType is returned for payloads that are not PDF, DOCX or plain text.
var ErrUnsupportedType = errors.New("unsupported mime type")

// ExtractTextFromBytes extracts text from an uploaded job description.
// An empty or generic mime type is resolved from the payload and file extension.
// Whitespace is normalized so keyword matching sees one space between words.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch kind := resolveType(mimeType, fileName, data); kind {
	case mimePDF:
		text, err = extractPDF(ctx, data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	case mimePlain, mimeMarkdown:
		text, err = extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(text), nil
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid utf-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// extractPDF reads page by page so one unreadable page does not lose the rest.
func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	readable := 0
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		readable++
		b.WriteString(content)
		b.WriteString("\n")
	}
	if readable == 0 {
		return "", errors.New("pdf has no readable pages")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	body := findZipEntry(zr, docxBodyPath)
	if body == nil {
		return "", fmt.Errorf("%s not found", docxBodyPath)
	}

	rc, err := body.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return docxText(io.LimitReader(rc, maxDocxBodyBytes))
}

// docxText streams WordprocessingML and keeps run text, turning paragraphs and
// breaks into newlines and tabs and table cells into tabs.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "br":
				b.WriteByte('\n')
			case "tc":
				b.WriteByte('\t')
			}
		}
	}
	return b.String(), nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

// resolveType maps the declared mime type to one of the supported kinds.
// Generic zip uploads count as DOCX only when they carry a Word body.
func resolveType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "" || clean == "application/octet-stream" {
		clean = sniffMimeType(fileName, data)
	}
	if clean != mimeZip {
		return clean
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err == nil && findZipEntry(zr, docxBodyPath) != nil {
		return mimeDOCX
	}
	return clean
}

func sniffMimeType(fileName string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".text":
		return mimePlain
	case ".md", ".markdown":
		return mimeMarkdown
	}
	detected := strings.ToLower(strings.Split(http.DetectContentType(data), ";")[0])
	return strings.TrimSpace(detected)
}

// normalizeWhitespace trims each line, collapses inner runs of spaces and tabs,
// and keeps at most one blank line between paragraphs.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
