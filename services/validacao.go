package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/anaclaradev/pesquisa-server/models"
)

// RespostaEntrada é uma resposta como chega no envio, já com a data parseada
// pelo controller. No máximo um dos três valores pode vir preenchido.
type RespostaEntrada struct {
	PerguntaID  uint
	ValorEscala *int
	ValorTexto  *string
	ValorData   *time.Time
}

// Preenchida diz se a resposta tem algum valor. Resposta sem valor nenhum é
// "não respondida", aceitável só para pergunta opcional.
func (r RespostaEntrada) Preenchida() bool {
	return r.ValorEscala != nil || r.ValorTexto != nil || r.ValorData != nil
}

func tipoConhecido(tipo string) bool {
	switch tipo {
	case models.TipoTextoLivre, models.TipoEscolhaUnica, models.TipoEscala, models.TipoData:
		return true
	}
	return false
}

// ValidarNovaPergunta aplica as regras de criação: tipo conhecido, ordem
// positiva e opções presentes quando (e somente quando) o tipo é
// escolha_unica.
func ValidarNovaPergunta(tipo string, opcoes []string, ordem int) error {
	if !tipoConhecido(tipo) {
		return &ErroValidacao{Campo: "tipo", Msg: fmt.Sprintf("tipo de pergunta desconhecido: %q", tipo)}
	}
	if ordem <= 0 {
		return &ErroValidacao{Campo: "ordem", Msg: "ordem deve ser um inteiro positivo"}
	}
	if tipo == models.TipoEscolhaUnica {
		if len(opcoes) == 0 {
			return &ErroValidacao{Campo: "opcoes", Msg: "pergunta de escolha única precisa de ao menos uma opção"}
		}
		if err := ValidarOpcoes(opcoes); err != nil {
			return err
		}
	} else if len(opcoes) > 0 {
		return &ErroValidacao{Campo: "opcoes", Msg: "apenas perguntas de escolha única aceitam opções"}
	}
	return nil
}

// ValidarOpcoes rejeita textos de opção em branco. Vale tanto na criação
// quanto na substituição do conjunto via update.
func ValidarOpcoes(opcoes []string) error {
	for i, op := range opcoes {
		if strings.TrimSpace(op) == "" {
			return &ErroValidacao{Campo: "opcoes", Msg: fmt.Sprintf("opção %d está vazia", i+1)}
		}
	}
	return nil
}

// ValidarRespostas confere um lote contra o conjunto de perguntas do
// questionário: cobertura exata (uma resposta por pergunta, nem a mais nem a
// menos), obrigatórias preenchidas e valor compatível com o tipo declarado.
// Nenhuma gravação acontece antes desta função passar.
func ValidarRespostas(perguntas []models.Pergunta, respostas []RespostaEntrada) error {
	porPergunta := make(map[uint]models.Pergunta, len(perguntas))
	for _, p := range perguntas {
		porPergunta[p.ID] = p
	}

	vistas := make(map[uint]bool, len(respostas))
	for _, r := range respostas {
		p, ok := porPergunta[r.PerguntaID]
		if !ok {
			return &ErroValidacao{
				Campo: campoPergunta(r.PerguntaID),
				Msg:   "pergunta não pertence ao questionário",
			}
		}
		if vistas[r.PerguntaID] {
			return &ErroValidacao{
				Campo: campoPergunta(r.PerguntaID),
				Msg:   "resposta duplicada para a mesma pergunta",
			}
		}
		vistas[r.PerguntaID] = true

		if err := validarValor(p, r); err != nil {
			return err
		}
	}

	for _, p := range perguntas {
		if !vistas[p.ID] {
			return &ErroValidacao{
				Campo: campoPergunta(p.ID),
				Msg:   "falta resposta para esta pergunta (mesmo opcional, ela deve vir no lote)",
			}
		}
	}
	return nil
}

func validarValor(p models.Pergunta, r RespostaEntrada) error {
	preenchidos := 0
	if r.ValorEscala != nil {
		preenchidos++
	}
	if r.ValorTexto != nil {
		preenchidos++
	}
	if r.ValorData != nil {
		preenchidos++
	}
	if preenchidos > 1 {
		return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "resposta com mais de um campo de valor preenchido"}
	}
	if preenchidos == 0 {
		if p.Obrigatoria {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "pergunta obrigatória sem resposta"}
		}
		return nil
	}

	switch p.Tipo {
	case models.TipoEscala:
		if r.ValorEscala == nil {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "pergunta de escala espera valor_escala"}
		}
		if *r.ValorEscala < 1 || *r.ValorEscala > 10 {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "valor da escala deve estar entre 1 e 10"}
		}
	case models.TipoEscolhaUnica:
		if r.ValorTexto == nil || strings.TrimSpace(*r.ValorTexto) == "" {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "pergunta de escolha única espera valor_texto"}
		}
		if !opcaoDeclarada(p.Opcoes, *r.ValorTexto) {
			return &ErroValidacao{
				Campo: campoPergunta(p.ID),
				Msg:   fmt.Sprintf("%q não está entre as opções da pergunta", *r.ValorTexto),
			}
		}
	case models.TipoTextoLivre:
		if r.ValorTexto == nil || strings.TrimSpace(*r.ValorTexto) == "" {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "pergunta de texto espera valor_texto não vazio"}
		}
	case models.TipoData:
		if r.ValorData == nil {
			return &ErroValidacao{Campo: campoPergunta(p.ID), Msg: "pergunta de data espera valor_data"}
		}
	}
	return nil
}

func opcaoDeclarada(opcoes []models.OpcaoPergunta, valor string) bool {
	for _, op := range opcoes {
		if op.Texto == valor {
			return true
		}
	}
	return false
}

func campoPergunta(id uint) string {
	return fmt.Sprintf("pergunta_%d", id)
}
