package aggregating

import (
	"errors"
	"fmt"
)

// Erros de cálculo por produto
var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrNegativeValue   = errors.New("value must not be negative")
	ErrMalformedEntry  = errors.New("malformed entry")
)

// EntryError descreve por que a entrada de um produto foi descartada
type EntryError struct {
	Product string // Produto descartado
	Field   string // Campo que falhou (quantity, price ou vazio para a entrada inteira)
	Err     error  // Erro base
}

// Error implementa a interface error
func (e *EntryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("product %q: %s: %s", e.Product, e.Field, e.Err.Error())
	}
	return fmt.Sprintf("product %q: %s", e.Product, e.Err.Error())
}

// Unwrap retorna o erro subjacente
func (e *EntryError) Unwrap() error {
	return e.Err
}

func newEntryError(product string, field string, err error) *EntryError {
	return &EntryError{
		Product: product,
		Field:   field,
		Err:     err,
	}
}
