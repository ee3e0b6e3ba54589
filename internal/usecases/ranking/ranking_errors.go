package ranking

import "errors"

var ErrInvalidMonth = errors.New("mês inválido, use o formato mm-yyyy")
