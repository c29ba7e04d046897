package reporting

import "errors"

// Erros específicos para o contexto de geração de relatórios
var (
	// Modo estrito: a execução é abortada antes da renderização
	ErrSkippedEntries = errors.New("aggregation skipped invalid entries")
)
