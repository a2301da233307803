package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/store"
)

const (
	fallbackCampaign = "Could not generate content. Please try again."
	unavailableAI    = "Error connecting to AI service. Please check your API key."
	sentimentNeutral = "Neutral"
)

var sentiments = []string{"Positive", "Neutral", "Negative"}

// MarketingService drafts campaign copy and classifies feedback. Generator
// failures degrade to fixed fallback text rather than errors.
type MarketingService struct {
	gen   TextGenerator
	store store.Store
	log   *zap.Logger
}

func NewMarketingService(gen TextGenerator, st store.Store, log *zap.Logger) *MarketingService {
	return &MarketingService{gen: gen, store: st, log: log}
}

// salonName reads the current business name so renames apply immediately.
func (s *MarketingService) salonName(ctx context.Context) string {
	settings, err := s.store.GetSettings(ctx)
	if err != nil || settings.SalonName == "" {
		if err != nil {
			s.log.Warn("marketing: settings unavailable", zap.Error(err))
		}
		return models.DefaultSettings().SalonName
	}
	return settings.SalonName
}

func (s *MarketingService) GenerateMarketingContent(ctx context.Context, segment, goal, tone string) (string, error) {
	segment, goal, tone = strings.TrimSpace(segment), strings.TrimSpace(goal), strings.TrimSpace(tone)
	if segment == "" || goal == "" {
		return "", fmt.Errorf("%w: segment and goal are required", ErrInvalidInput)
	}
	if tone == "" {
		tone = "friendly"
	}
	if s.gen == nil {
		return unavailableAI, nil
	}

	prompt := fmt.Sprintf(`Act as a professional marketing copywriter for a high-end beauty salon called %q.
Write a short, engaging marketing message (suitable for WhatsApp or SMS) for the following customer segment: %q.
The goal of the campaign is: %q.
The tone should be: %q.

Keep it under 160 characters if possible, but max 300. Include placeholders like [Name] if needed.
Add emojis where appropriate.`, s.salonName(ctx), segment, goal, tone)

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn("marketing generation failed", zap.String("segment", segment), zap.Error(err))
		return unavailableAI, nil
	}
	if text = strings.TrimSpace(text); text == "" {
		return fallbackCampaign, nil
	}
	return text, nil
}

// AnalyzeSentiment classifies feedback as Positive, Neutral or Negative.
// Anything the generator returns outside that set counts as Neutral.
func (s *MarketingService) AnalyzeSentiment(ctx context.Context, feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return "", fmt.Errorf("%w: feedback is required", ErrInvalidInput)
	}
	if s.gen == nil {
		return sentimentNeutral, nil
	}

	prompt := fmt.Sprintf("Analyze the sentiment of this salon customer feedback. Return ONLY one word: 'Positive', 'Neutral', or 'Negative'. Feedback: %q", feedback)
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn("sentiment analysis failed", zap.Error(err))
		return sentimentNeutral, nil
	}
	word := strings.Trim(strings.TrimSpace(text), ".'\"")
	for _, v := range sentiments {
		if strings.EqualFold(word, v) {
			return v, nil
		}
	}
	return sentimentNeutral, nil
}
