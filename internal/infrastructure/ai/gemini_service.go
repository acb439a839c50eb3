package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/facturador-api/internal/application/ports"
	"github.com/jhoicas/facturador-api/internal/domain"
)

// Verificar en tiempo de compilación que GeminiService implementa TextGenerator.
var _ ports.TextGenerator = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// Una sola reintención con backoff corto: suficiente para fallos
	// transitorios de red sin alargar indefinidamente la petición.
	geminiMaxAttempts  = 2
	geminiRetryBackoff = 500 * time.Millisecond
)

// GeminiService adaptador que implementa TextGenerator llamando a la API REST
// de Google Gemini. Usa únicamente net/http; no requiere el SDK oficial.
type GeminiService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-2.5-flash".
// Si apiKey está vacío, Generate falla con domain.ErrAINotConfigured antes de
// intentar cualquier llamada de red.
func NewGeminiService(apiKey, model string, timeout time.Duration) *GeminiService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Generate envía el prompt a Gemini y devuelve el texto de la primera
// respuesta candidata tal cual (el saneado es responsabilidad del caller).
// Reintenta una vez ante fallo de transporte o HTTP 5xx.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: falta GEMINI_API_KEY", domain.ErrAINotConfigured)
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: genConfig{
			Temperature:     0.2, // baja temperatura para salida más determinista
			MaxOutputTokens: 8192,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= geminiMaxAttempts; attempt++ {
		text, retryable, err := s.callOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable || attempt == geminiMaxAttempts {
			break
		}
		select {
		case <-time.After(geminiRetryBackoff):
		case <-ctx.Done():
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
	}
	return "", lastErr
}

// callOnce ejecuta una llamada. retryable indica si el fallo fue de transporte
// o 5xx (vale la pena reintentar) en lugar de un error definitivo (4xx,
// respuesta vacía, cancelación).
func (s *GeminiService) callOnce(ctx context.Context, body []byte) (text string, retryable bool, err error) {
	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", true, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", resp.StatusCode >= 500, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", resp.StatusCode >= 500, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", false, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), false, nil
}
