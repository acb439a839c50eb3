package ports

import "context"

// TextGenerator define el puerto de salida hacia el servicio externo de
// generación de texto. Cualquier adaptador (Gemini, Anthropic, mock) debe
// implementar esta interfaz; la aplicación solo conoce este contrato.
//
// Generate es síncrono desde la perspectiva del caller. El contexto debe
// llevar un timeout: es la única operación del sistema que bloquea en I/O
// externo.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
