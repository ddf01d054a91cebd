package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
	"github.com/fittingroom/fitsearch/internal/logger"
	"github.com/fittingroom/fitsearch/internal/metrics"
)

const systemPrompt = `You are a fashion stylist assistant. The user describes an aesthetic, vibe, or occasion. Convert it into concrete clothing attributes.

Respond with ONLY a JSON array. Each element is an object with exactly these keys:
- "item_type": a specific garment or accessory type (e.g. "blazer", "midi dress", "sneakers")
- "color": a specific color or palette (e.g. "black", "sage green", "pastel")
- "style": a short style descriptor (e.g. "oversized", "tailored", "romantic")

Return between 2 and 6 elements covering the looks the description implies. No prose, no markdown, no explanation.`

// Service turns free-text aesthetic descriptions into structured style
// attributes. It never fails a request: when the model is unreachable or
// returns garbage, a deterministic fallback table answers instead, and
// the outcome is tagged with its source.
type Service struct {
	completer     Completer
	maxAttributes int
}

// New creates an interpretation service. completer may be nil, in which
// case every interpretation uses the fallback table.
func New(completer Completer, maxAttributes int) *Service {
	return &Service{completer: completer, maxAttributes: maxAttributes}
}

// Interpret produces attributes for the given aesthetic text.
func (s *Service) Interpret(ctx context.Context, text string) domain.Interpretation {
	log := logger.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.InterpretationsTotal.WithLabelValues(string(domain.SourceNone)).Inc()
		return domain.Interpretation{Source: domain.SourceNone}
	}

	if s.completer != nil {
		attrs, err := s.fromModel(ctx, text)
		if err != nil {
			log.Warn("model interpretation failed, using fallback", zap.Error(err))
		} else if len(attrs) > 0 {
			metrics.InterpretationsTotal.WithLabelValues(string(domain.SourceModel)).Inc()
			return domain.Interpretation{Source: domain.SourceModel, Attributes: attrs}
		}
	}

	metrics.InterpretationsTotal.WithLabelValues(string(domain.SourceFallback)).Inc()
	return domain.Interpretation{
		Source:     domain.SourceFallback,
		Attributes: s.capAttrs(fallbackAttributes(text)),
	}
}

func (s *Service) fromModel(ctx context.Context, text string) ([]domain.StyleAttribute, error) {
	raw, err := s.completer.Complete(ctx, systemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	attrs, err := parseAttributes(raw)
	if err != nil {
		return nil, err
	}
	return s.capAttrs(attrs), nil
}

func (s *Service) capAttrs(attrs []domain.StyleAttribute) []domain.StyleAttribute {
	if s.maxAttributes > 0 && len(attrs) > s.maxAttributes {
		return attrs[:s.maxAttributes]
	}
	return attrs
}

// parseAttributes extracts the JSON array from the model output, tolerating
// markdown fences and surrounding prose. Entries missing any field are
// dropped rather than propagated.
func parseAttributes(raw string) ([]domain.StyleAttribute, error) {
	raw = stripFences(raw)

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var parsed []domain.StyleAttribute
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	attrs := make([]domain.StyleAttribute, 0, len(parsed))
	for _, a := range parsed {
		a = a.Normalize()
		if a.Valid() {
			attrs = append(attrs, a)
		}
	}
	return attrs, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
