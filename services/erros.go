package services

import "errors"

// ErroValidacao corresponde a entrada malformada (4xx): campo obrigatório
// ausente, valor fora do tipo declarado, escala fora de 1–10, opção
// desconhecida. O controller devolve Campo + Msg para o front renderizar
// a mensagem na pergunta certa.
type ErroValidacao struct {
	Campo string
	Msg   string
}

func (e *ErroValidacao) Error() string {
	if e.Campo == "" {
		return e.Msg
	}
	return e.Campo + ": " + e.Msg
}

// ErrJaRespondeu sinaliza envio duplicado do mesmo funcionário para o mesmo
// questionário (vira 409 no controller).
var ErrJaRespondeu = errors.New("funcionário já respondeu este questionário")
