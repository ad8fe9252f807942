package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
	"github.com/anaclaradev/pesquisa-server/services"
)

// abrirBancoDeTeste sobe um SQLite descartável com o mesmo esquema do
// Postgres de produção. TranslateError fica ligado como em ConnectDB, então
// a violação do índice único de envio chega ao controller como
// gorm.ErrDuplicatedKey aqui também.
func abrirBancoDeTeste(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pesquisa_test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrindo sqlite de teste: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Usuario{},
		&models.Funcionario{},
		&models.Questionario{},
		&models.Pergunta{},
		&models.OpcaoPergunta{},
		&models.Envio{},
		&models.Resposta{},
		&models.ExportJob{},
	); err != nil {
		t.Fatalf("migrando esquema de teste: %v", err)
	}

	config.DB = db
	return db
}

func seedQuestionario(t *testing.T, db *gorm.DB, titulo string) models.Questionario {
	t.Helper()
	q := models.Questionario{Titulo: titulo, Categoria: "clima", Ativa: true, Status: models.StatusAtiva}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("criando questionário: %v", err)
	}
	return q
}

func seedPergunta(t *testing.T, db *gorm.DB, qID uint, tipo string, ordem int, obrigatoria bool) models.Pergunta {
	t.Helper()
	p := models.Pergunta{
		QuestionarioID: qID,
		Texto:          fmt.Sprintf("Pergunta %d", ordem),
		Tipo:           tipo,
		Obrigatoria:    obrigatoria,
		Ordem:          ordem,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("criando pergunta: %v", err)
	}
	return p
}

func seedFuncionario(t *testing.T, db *gorm.DB, nome, email string) models.Funcionario {
	t.Helper()
	f := models.Funcionario{Nome: nome, Email: email, Setor: "RH"}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("criando funcionário: %v", err)
	}
	return f
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("serializando payload: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func rotaEnvios() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/questionarios/:id/envios", SubmitEnvio)
	r.GET("/api/questionarios/:id/analise", middleware.CarregarQuestionario(), GetAnalise)
	return r
}

func TestSubmitEnvioDuplicadoRecebe409(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Clima 2026")
	p := seedPergunta(t, db, q.ID, models.TipoEscala, 1, true)
	f := seedFuncionario(t, db, "Ana Souza", "ana.souza@empresa.com.br")
	r := rotaEnvios()

	payload := gin.H{
		"funcionario_id": f.ID,
		"respostas":      []gin.H{{"pergunta_id": p.ID, "valor_escala": 8}},
	}
	url := fmt.Sprintf("/api/questionarios/%d/envios", q.ID)

	w := doJSON(t, r, http.MethodPost, url, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("primeiro envio: esperado 201, veio %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, url, payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("segundo envio do mesmo funcionário: esperado 409, veio %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/questionarios/%d/analise", q.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("análise: esperado 200, veio %d", w.Code)
	}
	var analise services.Analise
	if err := json.Unmarshal(w.Body.Bytes(), &analise); err != nil {
		t.Fatalf("decodificando análise: %v", err)
	}
	if analise.TotalRespondentes != 1 {
		t.Fatalf("total de respondentes após duplicata rejeitada: esperado 1, veio %d", analise.TotalRespondentes)
	}
}

// Dois envios do mesmo funcionário em corrida passam ambos pelo caminho
// rápido; quem segura a regra é o índice idx_envio_unico. O segundo INSERT
// tem que voltar como gorm.ErrDuplicatedKey.
func TestEnvioIndiceUnicoDerrubaSegundoInsert(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Clima 2026")
	f := seedFuncionario(t, db, "Ana Souza", "ana.souza@empresa.com.br")

	primeiro := models.Envio{LoteID: uuid.New().String(), QuestionarioID: q.ID, FuncionarioID: &f.ID, EnviadoEm: time.Now()}
	if err := db.Create(&primeiro).Error; err != nil {
		t.Fatalf("primeiro envio: %v", err)
	}

	segundo := models.Envio{LoteID: uuid.New().String(), QuestionarioID: q.ID, FuncionarioID: &f.ID, EnviadoEm: time.Now()}
	err := db.Create(&segundo).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("segundo envio idêntico: esperado gorm.ErrDuplicatedKey, veio %v", err)
	}

	// Envios anônimos não entram no índice: funcionario_id NULL é sempre
	// distinto.
	for i := 0; i < 2; i++ {
		anon := models.Envio{LoteID: uuid.New().String(), QuestionarioID: q.ID, EnviadoEm: time.Now()}
		if err := db.Create(&anon).Error; err != nil {
			t.Fatalf("envio anônimo %d: %v", i+1, err)
		}
	}
}

func TestSubmitEnvioRejeitadoNaoGravaNada(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Offboarding")
	p1 := seedPergunta(t, db, q.ID, models.TipoEscala, 1, true)
	p2 := seedPergunta(t, db, q.ID, models.TipoTextoLivre, 2, true)
	r := rotaEnvios()
	url := fmt.Sprintf("/api/questionarios/%d/envios", q.ID)

	casos := []struct {
		nome      string
		respostas []gin.H
	}{
		{
			nome:      "cobertura incompleta",
			respostas: []gin.H{{"pergunta_id": p1.ID, "valor_escala": 7}},
		},
		{
			nome: "escala fora da faixa no meio de um lote válido",
			respostas: []gin.H{
				{"pergunta_id": p1.ID, "valor_escala": 11},
				{"pergunta_id": p2.ID, "valor_texto": "Tudo certo"},
			},
		},
	}

	for _, tc := range casos {
		t.Run(tc.nome, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, url, gin.H{"respostas": tc.respostas})
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("esperado 422, veio %d (%s)", w.Code, w.Body.String())
			}

			var envios, respostas int64
			db.Model(&models.Envio{}).Where("questionario_id = ?", q.ID).Count(&envios)
			db.Model(&models.Resposta{}).Count(&respostas)
			if envios != 0 || respostas != 0 {
				t.Fatalf("lote rejeitado deixou rastro: %d envios, %d respostas", envios, respostas)
			}
		})
	}
}

func rotaPerguntas() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/perguntas/reorder", ReorderPerguntas)
	r.PATCH("/api/perguntas/:id", middleware.CarregarPergunta(), UpdatePergunta)
	return r
}

func TestReorderPerguntasTrocaAsDuasOrdens(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Clima 2026")
	p1 := seedPergunta(t, db, q.ID, models.TipoEscala, 1, true)
	p2 := seedPergunta(t, db, q.ID, models.TipoTextoLivre, 2, false)
	r := rotaPerguntas()

	w := doJSON(t, r, http.MethodPost, "/api/perguntas/reorder", gin.H{
		"pergunta_id": p1.ID, "nova_ordem": 2,
		"par_id": p2.ID, "par_nova_ordem": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d (%s)", w.Code, w.Body.String())
	}

	var depois1, depois2 models.Pergunta
	db.First(&depois1, p1.ID)
	db.First(&depois2, p2.ID)
	if depois1.Ordem != 2 || depois2.Ordem != 1 {
		t.Fatalf("ordens após a troca: esperado (2, 1), veio (%d, %d)", depois1.Ordem, depois2.Ordem)
	}
}

func TestReorderPerguntasQuestionariosDiferentesNaoEscreve(t *testing.T) {
	db := abrirBancoDeTeste(t)
	qa := seedQuestionario(t, db, "Clima 2026")
	qb := seedQuestionario(t, db, "Offboarding")
	pa := seedPergunta(t, db, qa.ID, models.TipoEscala, 1, true)
	pb := seedPergunta(t, db, qb.ID, models.TipoEscala, 1, true)
	r := rotaPerguntas()

	w := doJSON(t, r, http.MethodPost, "/api/perguntas/reorder", gin.H{
		"pergunta_id": pa.ID, "nova_ordem": 5,
		"par_id": pb.ID, "par_nova_ordem": 6,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("par de questionários diferentes: esperado 400, veio %d (%s)", w.Code, w.Body.String())
	}

	var depoisA, depoisB models.Pergunta
	db.First(&depoisA, pa.ID)
	db.First(&depoisB, pb.ID)
	if depoisA.Ordem != 1 || depoisB.Ordem != 1 {
		t.Fatalf("troca recusada alterou ordens: (%d, %d)", depoisA.Ordem, depoisB.Ordem)
	}
}

func TestUpdatePerguntaRejeitaOpcaoEmBranco(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Clima 2026")
	p := seedPergunta(t, db, q.ID, models.TipoEscolhaUnica, 1, true)
	for i, texto := range []string{"Sim", "Não"} {
		op := models.OpcaoPergunta{PerguntaID: p.ID, Texto: texto, Ordem: i + 1}
		if err := db.Create(&op).Error; err != nil {
			t.Fatalf("criando opção: %v", err)
		}
	}
	r := rotaPerguntas()

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/perguntas/%d", p.ID), gin.H{
		"opcoes": []string{"Sim", "   "},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("opção em branco no update: esperado 422, veio %d (%s)", w.Code, w.Body.String())
	}

	var opcoes []models.OpcaoPergunta
	db.Where("pergunta_id = ?", p.ID).Order("ordem ASC").Find(&opcoes)
	if len(opcoes) != 2 || opcoes[0].Texto != "Sim" || opcoes[1].Texto != "Não" {
		t.Fatalf("conjunto de opções original deveria ficar intacto, veio %+v", opcoes)
	}
}

func TestCreateExportFalhaDeBancoRetorna500(t *testing.T) {
	db := abrirBancoDeTeste(t)
	q := seedQuestionario(t, db, "Clima 2026")

	// Sem a tabela de jobs o INSERT falha; a resposta tem que ser 500 e não
	// um 202 apontando para um job que nunca vai existir.
	if err := db.Migrator().DropTable(&models.ExportJob{}); err != nil {
		t.Fatalf("derrubando tabela de jobs: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/questionarios/:id/export", middleware.CarregarQuestionario(), CreateExport)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/questionarios/%d/export", q.ID), gin.H{"formato": "csv"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("insert de job falho: esperado 500, veio %d (%s)", w.Code, w.Body.String())
	}
}
