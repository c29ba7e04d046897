package utils

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	characters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	runIDLength = 10
)

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, runIDLength)
}

// NewRunID gera o identificador de uma execução do relatório. Se o gerador
// falhar, usa os primeiros caracteres de um UUID.
func NewRunID() string {
	id, err := GenerateID()
	if err != nil {
		return uuid.NewString()[:runIDLength]
	}
	return id
}
