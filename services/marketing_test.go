package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/store/memory"
	"salonpos/utils"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func TestGenerateMarketingContent(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{reply: "  Glow up this weekend, [Name]! 20% off spa ✨ "}
	m := NewMarketingService(gen, newSeeded(t), zap.NewNop())

	text, err := m.GenerateMarketingContent(ctx, "Gold members", "Weekend spa offer", "")
	require.NoError(t, err)
	require.Equal(t, "Glow up this weekend, [Name]! 20% off spa ✨", text)
	require.Contains(t, gen.prompt, `"Gold members"`)
	require.Contains(t, gen.prompt, `"friendly"`)
	require.Contains(t, gen.prompt, "LuxeSalon")

	gen.reply = ""
	text, err = m.GenerateMarketingContent(ctx, "All", "Reopen", "warm")
	require.NoError(t, err)
	require.Equal(t, fallbackCampaign, text)

	gen.err = errors.New("quota")
	text, err = m.GenerateMarketingContent(ctx, "All", "Reopen", "warm")
	require.NoError(t, err)
	require.Equal(t, unavailableAI, text)

	_, err = m.GenerateMarketingContent(ctx, "", "Reopen", "warm")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarketingUsesCurrentSalonName(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	gen := &stubGenerator{reply: "See you soon"}
	m := NewMarketingService(gen, st, zap.NewNop())

	_, err := NewSettingsService(st).Update(ctx, models.UpdateSettings{SalonName: ptr("Glow Studio")})
	require.NoError(t, err)

	_, err = m.GenerateMarketingContent(ctx, "Lapsed", "Win back", "warm")
	require.NoError(t, err)
	require.Contains(t, gen.prompt, `"Glow Studio"`)
	require.NotContains(t, gen.prompt, "LuxeSalon")
}

func TestAnalyzeSentiment(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"Positive":        "Positive",
		" negative.\n":    "Negative",
		"'Neutral'":       "Neutral",
		"Mostly positive": "Neutral",
	}
	for reply, want := range cases {
		m := NewMarketingService(&stubGenerator{reply: reply}, newSeeded(t), zap.NewNop())
		got, err := m.AnalyzeSentiment(ctx, "Loved the massage")
		require.NoError(t, err)
		require.Equal(t, want, got, reply)
	}

	m := NewMarketingService(&stubGenerator{err: errors.New("down")}, newSeeded(t), zap.NewNop())
	got, err := m.AnalyzeSentiment(ctx, "ok")
	require.NoError(t, err)
	require.Equal(t, "Neutral", got)

	got, err = NewMarketingService(nil, newSeeded(t), zap.NewNop()).AnalyzeSentiment(ctx, "ok")
	require.NoError(t, err)
	require.Equal(t, "Neutral", got)

	_, err = m.AnalyzeSentiment(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	jwt := utils.NewJWT("secret", time.Hour)
	auth := NewAuthService(memory.New(), jwt, zap.NewNop())

	require.NoError(t, auth.EnsureUser(ctx, "Owner", "Owner@Luxe.com", "pa55", models.RoleAdmin))
	require.NoError(t, auth.EnsureUser(ctx, "Owner", "owner@luxe.com", "other", models.RoleAdmin))

	token, u, err := auth.Login(ctx, "owner@luxe.com", "pa55")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, u.Role)

	claims, err := jwt.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.ID)
	require.Equal(t, "Admin", claims.Role)

	_, _, err = auth.Login(ctx, "owner@luxe.com", "other")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "ghost@luxe.com", "pa55")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
