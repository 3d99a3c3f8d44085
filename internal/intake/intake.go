// Package intake digitizes uploaded claim documents into drafts. The OCR
// step proper is an external collaborator; this package consumes documents
// that already carry a text layer (PDF or plain text), extracts the claim
// fields from it, and guards against re-processing the same document. A
// draft is returned to the caller for confirmation; intake never writes to
// the claims store.
package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/internal/platform/metrics"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// Draft is the extraction output, consumed as a pre-fill for a new claim.
type Draft struct {
	Name      *string           `json:"name"`
	Village   *string           `json:"village"`
	District  *string           `json:"district"`
	State     *string           `json:"state"`
	Latitude  models.NullFloat  `json:"latitude"`
	Longitude models.NullFloat  `json:"longitude"`
	RawText   string            `json:"raw_text"`
	Entities  map[string]string `json:"raw_entities"`
}

// Processor turns uploaded documents into drafts.
type Processor struct {
	dedup   Deduper
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProcessor builds a Processor. A nil deduper disables duplicate
// detection.
func NewProcessor(dedup Deduper, logger *slog.Logger, m *metrics.Metrics) *Processor {
	if dedup == nil {
		dedup = noopDeduper{}
	}
	return &Processor{dedup: dedup, logger: logger, metrics: m}
}

// Process extracts a draft from an uploaded document. A document whose text
// was already processed is rejected with CodeConflict, mirroring the
// store-side duplicate check on raw text.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (*Draft, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeBadRequest, "could not read document", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "document has no extractable text")
	}

	fingerprint := fingerprintText(text)
	alreadySeen, err := p.dedup.Remember(ctx, fingerprint)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeUnavailable, "dedup index unavailable", err)
	}
	if alreadySeen {
		p.metrics.DuplicateDocuments.Inc()
		return nil, domainerrors.New(domainerrors.CodeConflict, "this document has already been processed")
	}

	draft := ParseFields(text)
	p.metrics.DocumentsProcessed.Inc()
	p.logger.InfoContext(ctx, "document digitized",
		"filename", filename,
		"fields_extracted", len(draft.Entities),
	)
	return draft, nil
}

func fingerprintText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
