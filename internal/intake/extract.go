package intake

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// pdfMagic is the header every PDF starts with; uploads are sniffed by
// content, not extension.
var pdfMagic = []byte("%PDF-")

// ExtractText pulls the text layer out of an uploaded document. PDFs go
// through the pdf reader page by page; anything else is accepted as plain
// UTF-8 text.
func ExtractText(filename string, data []byte) (string, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return extractPDFText(data)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not a PDF and not valid text", filename)
	}
	return string(data), nil
}

func extractPDFText(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var builder strings.Builder
	for page := 1; page <= doc.NumPage(); page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", page, err)
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// The field patterns follow the layout of scanned FRA forms: a label, an
// optional separator, then the value to end of line.
var (
	namePattern      = regexp.MustCompile(`(?i)Name\s*of\s*Claimant\s*[:\-]?\s*(.+)`)
	villagePattern   = regexp.MustCompile(`(?i)Village\s*[:\-]?\s*(.+)`)
	districtPattern  = regexp.MustCompile(`(?i)District\s*[:\-]?\s*(.+)`)
	statePattern     = regexp.MustCompile(`(?i)State\s*[:\-]?\s*(.+)`)
	claimTypePattern = regexp.MustCompile(`(?i)Claim\s*Type\s*[:\-]?\s*(.+)`)
	statusPattern    = regexp.MustCompile(`(?i)Status\s*[:\-]?\s*(.+)`)
	coordPattern     = regexp.MustCompile(`(?i)Coordinates\s*[:\-]?\s*([\d.\-]+)\s*,\s*([\d.\-]+)`)
)

// ParseFields runs the field extraction over raw document text. Every hit
// also lands in the raw_entities map; claim type and status stay
// entities-only because the draft's consumer decides those explicitly.
func ParseFields(text string) *Draft {
	draft := &Draft{
		RawText:  text,
		Entities: make(map[string]string),
	}

	draft.Name = extractField(namePattern, text, "name", draft.Entities)
	draft.Village = extractField(villagePattern, text, "village", draft.Entities)
	draft.District = extractField(districtPattern, text, "district", draft.Entities)
	draft.State = extractField(statePattern, text, "state", draft.Entities)
	extractField(claimTypePattern, text, "claim_type", draft.Entities)
	extractField(statusPattern, text, "status", draft.Entities)

	if m := coordPattern.FindStringSubmatch(text); m != nil {
		if lat, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.Latitude = models.Float(lat)
			draft.Entities["latitude"] = m[1]
		}
		if lng, err := strconv.ParseFloat(m[2], 64); err == nil {
			draft.Longitude = models.Float(lng)
			draft.Entities["longitude"] = m[2]
		}
	}
	return draft
}

func extractField(pattern *regexp.Regexp, text, key string, entities map[string]string) *string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return nil
	}
	entities[key] = value
	return &value
}
