package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 6
)

// GenerateID gera os ids curtos usados por lojas e transações
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
