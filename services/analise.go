package services

import (
	"math"
	"sort"

	"github.com/anaclaradev/pesquisa-server/models"
)

// Analise é o resumo descritivo de todos os envios de um questionário.
// Questionário sem perguntas ou sem envios produz um resumo zerado, nunca
// erro.
type Analise struct {
	QuestionarioID    uint              `json:"questionario_id"`
	Titulo            string            `json:"titulo"`
	Categoria         string            `json:"categoria"`
	TotalRespondentes int               `json:"total_respondentes"`
	Perguntas         []AnalisePergunta `json:"perguntas"`
}

type AnalisePergunta struct {
	PerguntaID uint   `json:"pergunta_id"`
	Texto      string `json:"texto"`
	Tipo       string `json:"tipo"`

	// Preenchido conforme o tipo da pergunta.
	Escala *AnaliseEscala  `json:"escala,omitempty"`
	Opcoes []ContagemOpcao `json:"opcoes,omitempty"`
	Outros int             `json:"outros,omitempty"` // escolhas que não constam mais das opções declaradas
	Textos []RespostaTexto `json:"textos,omitempty"`
	Datas  *AnaliseData    `json:"datas,omitempty"`
}

type AnaliseEscala struct {
	Contagem int     `json:"contagem"`
	Media    float64 `json:"media"` // aritmética, arredondada a uma casa
	// Distribuicao[i] = quantos respondentes marcaram o valor i+1; sempre
	// com as dez posições, zeradas quando ninguém marcou.
	Distribuicao []int `json:"distribuicao"`
}

type ContagemOpcao struct {
	Opcao    string `json:"opcao"`
	Contagem int    `json:"contagem"`
}

type RespostaTexto struct {
	Texto       string  `json:"texto"`
	Funcionario *string `json:"funcionario,omitempty"` // nome, quando o envio foi identificado
}

type AnaliseData struct {
	Contagem int `json:"contagem"`
}

// Tabular computa a análise por pergunta sobre os envios recebidos. As
// perguntas devem vir já ordenadas (ordem ASC, id ASC) com as opções
// carregadas; os envios em ordem de submissão com respostas e funcionário
// carregados; a listagem de texto livre preserva essa ordem.
func Tabular(q models.Questionario, perguntas []models.Pergunta, envios []models.Envio) Analise {
	an := Analise{
		QuestionarioID:    q.ID,
		Titulo:            q.Titulo,
		Categoria:         q.Categoria,
		TotalRespondentes: len(envios),
		Perguntas:         make([]AnalisePergunta, 0, len(perguntas)),
	}

	type item struct {
		resposta    models.Resposta
		funcionario *string
	}
	porPergunta := make(map[uint][]item)
	for _, e := range envios {
		var nome *string
		if e.Funcionario != nil {
			n := e.Funcionario.Nome
			nome = &n
		}
		for _, r := range e.Respostas {
			porPergunta[r.PerguntaID] = append(porPergunta[r.PerguntaID], item{resposta: r, funcionario: nome})
		}
	}

	for _, p := range perguntas {
		ap := AnalisePergunta{PerguntaID: p.ID, Texto: p.Texto, Tipo: p.Tipo}
		itens := porPergunta[p.ID]

		switch p.Tipo {
		case models.TipoEscala:
			esc := AnaliseEscala{Distribuicao: make([]int, 10)}
			soma := 0
			for _, it := range itens {
				if it.resposta.ValorEscala == nil {
					continue
				}
				v := *it.resposta.ValorEscala
				if v < 1 || v > 10 {
					continue // valor fora da faixa não entra na distribuição
				}
				esc.Distribuicao[v-1]++
				esc.Contagem++
				soma += v
			}
			if esc.Contagem > 0 {
				esc.Media = math.Round(float64(soma)/float64(esc.Contagem)*10) / 10
			}
			ap.Escala = &esc

		case models.TipoEscolhaUnica:
			opcoes := append([]models.OpcaoPergunta(nil), p.Opcoes...)
			sort.SliceStable(opcoes, func(i, j int) bool {
				if opcoes[i].Ordem != opcoes[j].Ordem {
					return opcoes[i].Ordem < opcoes[j].Ordem
				}
				return opcoes[i].ID < opcoes[j].ID
			})
			contagem := make(map[string]int, len(opcoes))
			declaradas := make(map[string]bool, len(opcoes))
			for _, op := range opcoes {
				declaradas[op.Texto] = true
			}
			outros := 0
			for _, it := range itens {
				if it.resposta.ValorTexto == nil || *it.resposta.ValorTexto == "" {
					continue
				}
				v := *it.resposta.ValorTexto
				if declaradas[v] {
					contagem[v]++
				} else {
					// opção editada depois do envio: agrupa em "outros" em
					// vez de descartar em silêncio
					outros++
				}
			}
			ap.Opcoes = make([]ContagemOpcao, 0, len(opcoes))
			for _, op := range opcoes {
				ap.Opcoes = append(ap.Opcoes, ContagemOpcao{Opcao: op.Texto, Contagem: contagem[op.Texto]})
			}
			ap.Outros = outros

		case models.TipoTextoLivre:
			ap.Textos = []RespostaTexto{}
			for _, it := range itens {
				if it.resposta.ValorTexto == nil || *it.resposta.ValorTexto == "" {
					continue
				}
				ap.Textos = append(ap.Textos, RespostaTexto{Texto: *it.resposta.ValorTexto, Funcionario: it.funcionario})
			}

		case models.TipoData:
			d := AnaliseData{}
			for _, it := range itens {
				if it.resposta.ValorData != nil {
					d.Contagem++
				}
			}
			ap.Datas = &d
		}

		an.Perguntas = append(an.Perguntas, ap)
	}
	return an
}
