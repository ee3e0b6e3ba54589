package store

import "errors"

var (
	ErrStoreNameRequired = errors.New("nome da loja é obrigatório")
	ErrNegativeAmount    = errors.New("valor da transação não pode ser negativo")
	ErrStoreNotFound     = errors.New("loja não encontrada")
)
