package services

import (
	"testing"
	"time"

	"github.com/anaclaradev/pesquisa-server/models"
)

func envioFixture(id uint, funcionario *models.Funcionario, respostas ...models.Resposta) models.Envio {
	var fid *uint
	if funcionario != nil {
		fid = &funcionario.ID
	}
	return models.Envio{
		ID:             id,
		QuestionarioID: 7,
		FuncionarioID:  fid,
		Funcionario:    funcionario,
		EnviadoEm:      time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
		Respostas:      respostas,
	}
}

func TestTabularEscala(t *testing.T) {
	perguntas := []models.Pergunta{
		{ID: 1, QuestionarioID: 7, Texto: "Nota geral", Tipo: models.TipoEscala, Ordem: 1},
	}
	envios := []models.Envio{
		envioFixture(1, nil, models.Resposta{PerguntaID: 1, ValorEscala: intPtr(4)}),
		envioFixture(2, nil, models.Resposta{PerguntaID: 1, ValorEscala: intPtr(8)}),
		envioFixture(3, nil, models.Resposta{PerguntaID: 1, ValorEscala: intPtr(10)}),
	}

	an := Tabular(models.Questionario{ID: 7, Titulo: "Clima"}, perguntas, envios)
	if an.TotalRespondentes != 3 {
		t.Fatalf("esperava 3 respondentes, veio %d", an.TotalRespondentes)
	}
	esc := an.Perguntas[0].Escala
	if esc == nil {
		t.Fatal("análise de escala ausente")
	}
	if esc.Contagem != 3 {
		t.Fatalf("esperava contagem 3, veio %d", esc.Contagem)
	}
	if esc.Media != 7.3 {
		t.Fatalf("esperava média 7.3, veio %v", esc.Media)
	}
	if len(esc.Distribuicao) != 10 {
		t.Fatalf("distribuição deve ter 10 posições, veio %d", len(esc.Distribuicao))
	}
	for i, n := range esc.Distribuicao {
		valor := i + 1
		esperado := 0
		if valor == 4 || valor == 8 || valor == 10 {
			esperado = 1
		}
		if n != esperado {
			t.Fatalf("distribuição[%d]: esperava %d, veio %d", valor, esperado, n)
		}
	}
}

func TestTabularEscolhaUnica(t *testing.T) {
	perguntas := []models.Pergunta{
		{ID: 2, QuestionarioID: 7, Texto: "Recomendaria?", Tipo: models.TipoEscolhaUnica, Ordem: 1,
			Opcoes: []models.OpcaoPergunta{
				{ID: 10, Texto: "Sim", Ordem: 1},
				{ID: 11, Texto: "Não", Ordem: 2},
				{ID: 12, Texto: "Não sei", Ordem: 3},
			}},
	}
	envios := []models.Envio{
		envioFixture(1, nil, models.Resposta{PerguntaID: 2, ValorTexto: strPtr("Sim")}),
		envioFixture(2, nil, models.Resposta{PerguntaID: 2, ValorTexto: strPtr("Sim")}),
		envioFixture(3, nil, models.Resposta{PerguntaID: 2, ValorTexto: strPtr("Não")}),
		// opção que foi editada depois do envio: vai para "outros"
		envioFixture(4, nil, models.Resposta{PerguntaID: 2, ValorTexto: strPtr("Talvez")}),
	}

	an := Tabular(models.Questionario{ID: 7}, perguntas, envios)
	ap := an.Perguntas[0]
	if len(ap.Opcoes) != 3 {
		t.Fatalf("esperava 3 opções (zero incluso), veio %d", len(ap.Opcoes))
	}
	esperado := map[string]int{"Sim": 2, "Não": 1, "Não sei": 0}
	for _, co := range ap.Opcoes {
		if co.Contagem != esperado[co.Opcao] {
			t.Fatalf("opção %q: esperava %d, veio %d", co.Opcao, esperado[co.Opcao], co.Contagem)
		}
	}
	// ordem declarada preservada
	if ap.Opcoes[0].Opcao != "Sim" || ap.Opcoes[1].Opcao != "Não" || ap.Opcoes[2].Opcao != "Não sei" {
		t.Fatalf("ordem das opções errada: %+v", ap.Opcoes)
	}
	if ap.Outros != 1 {
		t.Fatalf("esperava 1 em outros, veio %d", ap.Outros)
	}
}

func TestTabularTextoLivre(t *testing.T) {
	ana := &models.Funcionario{ID: 5, Nome: "Ana Souza"}
	perguntas := []models.Pergunta{
		{ID: 3, QuestionarioID: 7, Texto: "Comentários", Tipo: models.TipoTextoLivre, Ordem: 1},
	}
	envios := []models.Envio{
		envioFixture(1, ana, models.Resposta{PerguntaID: 3, ValorTexto: strPtr("Primeiro comentário")}),
		envioFixture(2, nil, models.Resposta{PerguntaID: 3, ValorTexto: strPtr("Anônimo aqui")}),
		envioFixture(3, nil, models.Resposta{PerguntaID: 3}), // não respondida
	}

	an := Tabular(models.Questionario{ID: 7}, perguntas, envios)
	textos := an.Perguntas[0].Textos
	if len(textos) != 2 {
		t.Fatalf("esperava 2 textos, veio %d", len(textos))
	}
	// ordem de submissão preservada
	if textos[0].Texto != "Primeiro comentário" || textos[1].Texto != "Anônimo aqui" {
		t.Fatalf("ordem dos textos errada: %+v", textos)
	}
	if textos[0].Funcionario == nil || *textos[0].Funcionario != "Ana Souza" {
		t.Fatalf("atribuição do envio identificado errada: %+v", textos[0])
	}
	if textos[1].Funcionario != nil {
		t.Fatalf("envio anônimo não pode ter atribuição: %+v", textos[1])
	}
}

func TestTabularData(t *testing.T) {
	perguntas := []models.Pergunta{
		{ID: 4, QuestionarioID: 7, Texto: "Último dia", Tipo: models.TipoData, Ordem: 1},
	}
	envios := []models.Envio{
		envioFixture(1, nil, models.Resposta{PerguntaID: 4, ValorData: dataPtr("2026-03-31")}),
		envioFixture(2, nil, models.Resposta{PerguntaID: 4}),
		envioFixture(3, nil, models.Resposta{PerguntaID: 4, ValorData: dataPtr("2026-04-15")}),
	}

	an := Tabular(models.Questionario{ID: 7}, perguntas, envios)
	d := an.Perguntas[0].Datas
	if d == nil || d.Contagem != 2 {
		t.Fatalf("esperava contagem 2 para datas, veio %+v", d)
	}
}

func TestTabularSemEnvios(t *testing.T) {
	perguntas := []models.Pergunta{
		{ID: 1, Texto: "Nota", Tipo: models.TipoEscala, Ordem: 1},
		{ID: 2, Texto: "Recomendaria?", Tipo: models.TipoEscolhaUnica, Ordem: 2,
			Opcoes: []models.OpcaoPergunta{{ID: 10, Texto: "Sim", Ordem: 1}}},
	}

	an := Tabular(models.Questionario{ID: 7}, perguntas, nil)
	if an.TotalRespondentes != 0 {
		t.Fatalf("esperava 0 respondentes, veio %d", an.TotalRespondentes)
	}
	if len(an.Perguntas) != 2 {
		t.Fatalf("esperava 2 perguntas no resumo, veio %d", len(an.Perguntas))
	}
	esc := an.Perguntas[0].Escala
	if esc.Contagem != 0 || esc.Media != 0 {
		t.Fatalf("resumo de escala deveria vir zerado: %+v", esc)
	}
	for _, n := range esc.Distribuicao {
		if n != 0 {
			t.Fatalf("distribuição deveria ser toda zero: %+v", esc.Distribuicao)
		}
	}
	if an.Perguntas[1].Opcoes[0].Contagem != 0 {
		t.Fatalf("opção sem envio deveria contar 0: %+v", an.Perguntas[1].Opcoes)
	}
}

func TestTabularSemPerguntas(t *testing.T) {
	an := Tabular(models.Questionario{ID: 7}, nil, nil)
	if an.TotalRespondentes != 0 || len(an.Perguntas) != 0 {
		t.Fatalf("questionário vazio deveria produzir resumo vazio: %+v", an)
	}
}

func TestTabularPerguntasEmOrdem(t *testing.T) {
	perguntas := []models.Pergunta{
		{ID: 9, Texto: "Primeira", Tipo: models.TipoTextoLivre, Ordem: 1},
		{ID: 4, Texto: "Segunda", Tipo: models.TipoTextoLivre, Ordem: 5},
		{ID: 6, Texto: "Terceira", Tipo: models.TipoTextoLivre, Ordem: 9},
	}
	an := Tabular(models.Questionario{ID: 7}, perguntas, nil)
	for i, esperado := range []uint{9, 4, 6} {
		if an.Perguntas[i].PerguntaID != esperado {
			t.Fatalf("análise fora de ordem na posição %d: %+v", i, an.Perguntas)
		}
	}
}
