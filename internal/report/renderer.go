package report

import (
	"errors"
	"fmt"
)

// Renderer transforma o Document em um arquivo no destino configurado
type Renderer interface {
	Name() string
	Title() string
	Destination() string
	Render(doc Document) error
}

var (
	ErrRendererUnavailable = errors.New("renderer unavailable")
	ErrWriteDestination    = errors.New("error writing report file")
	ErrBuildDocument       = errors.New("error building report document")
)

// RenderError é um erro de renderização com o renderizador e o destino envolvidos
type RenderError struct {
	Renderer    string
	Destination string
	Kind        error // ErrRendererUnavailable, ErrWriteDestination ou ErrBuildDocument
	Err         error // Causa (opcional)
}

// Error implementa a interface error
func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s report %s: %s: %s", e.Renderer, e.Destination, e.Kind.Error(), e.Err.Error())
	}
	return fmt.Sprintf("%s report %s: %s", e.Renderer, e.Destination, e.Kind.Error())
}

// Unwrap retorna o tipo do erro e a causa
func (e *RenderError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewRenderError(renderer string, destination string, kind error, err error) *RenderError {
	return &RenderError{
		Renderer:    renderer,
		Destination: destination,
		Kind:        kind,
		Err:         err,
	}
}
