package ai_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/infrastructure/ai"
)

// TestGenerate_SinAPIKey: sin credencial el adaptador falla con el error de
// configuración antes de intentar cualquier llamada de red.
func TestGenerate_SinAPIKey(t *testing.T) {
	svc := ai.NewGeminiService("", "gemini-2.5-flash", time.Second)

	out, err := svc.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, domain.ErrAINotConfigured)
	assert.Empty(t, out)
}
