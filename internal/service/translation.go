package service

import (
	"context"
	"log"
	"strings"
	"time"

	"seoulmate/backend/internal/ratelimit"
	apperrors "seoulmate/backend/pkg/errors"
)

const (
	maxTranslationLength = 5000
	maxBatchTexts        = 10
)

// Translator is the external language-model collaborator. targetLang is
// "ko", "en" or empty for auto-detect.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TranslationService wraps the translation provider with the per-user
// rate limit. Provider failures surface as INTERNAL and are not retried.
type TranslationService struct {
	Translator Translator
	Limiter    *ratelimit.Limiter
}

func NewTranslationService(t Translator, limiter *ratelimit.Limiter) *TranslationService {
	return &TranslationService{Translator: t, Limiter: limiter}
}

// TranslationResult carries the translation plus the caller's remaining
// budget so the UI can show it.
type TranslationResult struct {
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText"`
	Remaining      int       `json:"remaining"`
	ResetAt        time.Time `json:"resetAt"`
}

func (t *TranslationService) Translate(ctx context.Context, actorID, text, targetLang string) (*TranslationResult, error) {
	res := t.Limiter.Check(ratelimit.ActionTranslation, actorID)
	if !res.Allowed {
		return nil, tooManyRequests("translation limit exceeded", res)
	}

	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTranslationLength {
		return nil, apperrors.InvalidArg("text must be between 1 and 5000 characters")
	}
	if targetLang != "" && targetLang != "ko" && targetLang != "en" {
		return nil, apperrors.InvalidArg("target language must be ko or en")
	}

	translated, err := t.Translator.Translate(ctx, text, targetLang)
	if err != nil {
		log.Printf("ERROR: Translation failed for user %s: %v", actorID, err)
		return nil, apperrors.Wrap(apperrors.CodeInternal, "translation failed", err)
	}

	return &TranslationResult{
		OriginalText:   text,
		TranslatedText: translated,
		Remaining:      res.Remaining,
		ResetAt:        res.ResetAt,
	}, nil
}

// BatchItem is one translated entry of a batch call.
type BatchItem struct {
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
}

// BatchTranslationResult carries the translations of one batch call plus
// the caller's remaining budget.
type BatchTranslationResult struct {
	Items     []BatchItem `json:"items"`
	Remaining int         `json:"remaining"`
	ResetAt   time.Time   `json:"resetAt"`
}

// TranslateBatch translates up to 10 texts in one call, charged once
// against the caller's translation budget. Any provider failure fails the
// whole batch; partial results are never returned.
func (t *TranslationService) TranslateBatch(ctx context.Context, actorID string, texts []string, targetLang string) (*BatchTranslationResult, error) {
	res := t.Limiter.Check(ratelimit.ActionTranslation, actorID)
	if !res.Allowed {
		return nil, tooManyRequests("translation limit exceeded", res)
	}

	if len(texts) == 0 || len(texts) > maxBatchTexts {
		return nil, apperrors.InvalidArg("batch must contain between 1 and 10 texts")
	}
	if targetLang != "" && targetLang != "ko" && targetLang != "en" {
		return nil, apperrors.InvalidArg("target language must be ko or en")
	}

	trimmed := make([]string, len(texts))
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" || len(text) > maxTranslationLength {
			return nil, apperrors.InvalidArg("every text must be between 1 and 5000 characters")
		}
		trimmed[i] = text
	}

	items := make([]BatchItem, 0, len(trimmed))
	for _, text := range trimmed {
		translated, err := t.Translator.Translate(ctx, text, targetLang)
		if err != nil {
			log.Printf("ERROR: Batch translation failed for user %s: %v", actorID, err)
			return nil, apperrors.Wrap(apperrors.CodeInternal, "translation failed", err)
		}
		items = append(items, BatchItem{OriginalText: text, TranslatedText: translated})
	}

	return &BatchTranslationResult{
		Items:     items,
		Remaining: res.Remaining,
		ResetAt:   res.ResetAt,
	}, nil
}
