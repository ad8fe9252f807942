package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
	"github.com/anaclaradev/pesquisa-server/services"
)

type addPerguntaReq struct {
	Texto       string   `json:"texto" binding:"required,min=1"`
	Tipo        string   `json:"tipo" binding:"required"`
	Opcoes      []string `json:"opcoes"`
	Obrigatoria bool     `json:"obrigatoria"`
	Ordem       *int     `json:"ordem"` // ausente = vai para o fim
}

func AddPergunta(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	var req addPerguntaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	req.Tipo = strings.ToLower(strings.TrimSpace(req.Tipo))

	ordem := 0
	if req.Ordem != nil {
		ordem = *req.Ordem
	} else {
		// Próxima posição = MAX(ordem)+1 (1-based)
		type nextRes struct{ Next int }
		var r nextRes
		_ = config.DB.Model(&models.Pergunta{}).
			Where("questionario_id = ?", q.ID).
			Select("COALESCE(MAX(ordem), 0) + 1 AS next").
			Scan(&r).Error
		ordem = r.Next
	}

	if err := services.ValidarNovaPergunta(req.Tipo, req.Opcoes, ordem); err != nil {
		var ev *services.ErroValidacao
		if ok := asErroValidacao(err, &ev); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": ev.Msg, "campo": ev.Campo})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	p := models.Pergunta{
		QuestionarioID: q.ID,
		Texto:          req.Texto,
		Tipo:           req.Tipo,
		Obrigatoria:    req.Obrigatoria,
		Ordem:          ordem,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		for i, texto := range req.Opcoes {
			op := models.OpcaoPergunta{PerguntaID: p.ID, Texto: texto, Ordem: i + 1}
			if err := tx.Create(&op).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível adicionar a pergunta"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pergunta_id": p.ID, "questionario_id": q.ID, "ordem": p.Ordem})
}

// GET /api/questionarios/:id/perguntas. Sempre em (ordem ASC, id ASC) para
// a sequência ser estável mesmo com ordens empatadas.
func ListPerguntas(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	var perguntas []models.Pergunta
	if err := config.DB.
		Where("questionario_id = ?", q.ID).
		Preload("Opcoes", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		Order("ordem ASC, id ASC").
		Find(&perguntas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível listar as perguntas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionario_id": q.ID, "perguntas": perguntas})
}

type updatePerguntaReq struct {
	Texto       *string   `json:"texto"`
	Tipo        *string   `json:"tipo"`
	Obrigatoria *bool     `json:"obrigatoria"`
	Opcoes      *[]string `json:"opcoes"` // presente = substitui o conjunto inteiro
}

// UpdatePergunta faz update parcial. Mudar o tipo para longe de
// escolha_unica NÃO limpa as opções automaticamente; o front manda
// `"opcoes": []` junto quando quer isso.
func UpdatePergunta(c *gin.Context) {
	p := c.MustGet(middleware.CtxPergunta).(models.Pergunta)

	var req updatePerguntaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Texto != nil {
		updates["texto"] = *req.Texto
	}
	if req.Tipo != nil {
		tipo := strings.ToLower(strings.TrimSpace(*req.Tipo))
		if err := services.ValidarNovaPergunta(tipo, nil, p.Ordem); err != nil {
			// só o tipo interessa aqui; opções são validadas abaixo se vierem
			var ev *services.ErroValidacao
			if asErroValidacao(err, &ev) && ev.Campo == "tipo" {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"message": ev.Msg, "campo": ev.Campo})
				return
			}
		}
		updates["tipo"] = tipo
	}
	if req.Obrigatoria != nil {
		updates["obrigatoria"] = *req.Obrigatoria
	}
	if req.Opcoes != nil {
		if err := services.ValidarOpcoes(*req.Opcoes); err != nil {
			var ev *services.ErroValidacao
			if asErroValidacao(err, &ev) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"message": ev.Msg, "campo": ev.Campo})
				return
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
	}
	if len(updates) == 0 && req.Opcoes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nada para atualizar"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Opcoes != nil {
			if err := tx.Where("pergunta_id = ?", p.ID).Delete(&models.OpcaoPergunta{}).Error; err != nil {
				return err
			}
			for i, texto := range *req.Opcoes {
				op := models.OpcaoPergunta{PerguntaID: p.ID, Texto: texto, Ordem: i + 1}
				if err := tx.Create(&op).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Atualização falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

type reorderPairReq struct {
	PerguntaID   uint `json:"pergunta_id" binding:"required"`
	NovaOrdem    int  `json:"nova_ordem" binding:"required"`
	ParID        uint `json:"par_id" binding:"required"`
	ParNovaOrdem int  `json:"par_nova_ordem" binding:"required"`
}

// ReorderPerguntas troca a ordem de duas perguntas numa transação única. O
// front antigo fazia dois PATCH independentes para "subir/descer", e uma
// falha no segundo deixava duas perguntas com a mesma ordem.
func ReorderPerguntas(c *gin.Context) {
	var req reorderPairReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}
	if req.PerguntaID == req.ParID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "pergunta_id e par_id devem ser diferentes"})
		return
	}
	if req.NovaOrdem <= 0 || req.ParNovaOrdem <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "ordem deve ser um inteiro positivo"})
		return
	}
	if req.NovaOrdem == req.ParNovaOrdem {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "as novas ordens não podem coincidir"})
		return
	}

	var a, b models.Pergunta
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, req.PerguntaID).Error; err != nil {
			return err
		}
		if err := tx.First(&b, req.ParID).Error; err != nil {
			return err
		}
		if a.QuestionarioID != b.QuestionarioID {
			return &services.ErroValidacao{Msg: "as perguntas pertencem a questionários diferentes"}
		}
		if err := tx.Model(&models.Pergunta{}).Where("id = ?", a.ID).Update("ordem", req.NovaOrdem).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Pergunta{}).Where("id = ?", b.ID).Update("ordem", req.ParNovaOrdem).Error; err != nil {
			return err
		}
		a.Ordem = req.NovaOrdem
		b.Ordem = req.ParNovaOrdem
		return nil
	})
	if err != nil {
		var ev *services.ErroValidacao
		if asErroValidacao(err, &ev) {
			c.JSON(http.StatusBadRequest, gin.H{"message": ev.Msg})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Pergunta não existe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Reordenação falhou"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"perguntas": []gin.H{
			{"id": a.ID, "ordem": a.Ordem},
			{"id": b.ID, "ordem": b.Ordem},
		},
	})
}

// DeletePergunta é exclusão física, mas BLOQUEADA quando já existem
// respostas gravadas: dado histórico de pesquisa não se perde por edição
// tardia. Depois da exclusão as perguntas seguintes recuam uma posição.
func DeletePergunta(c *gin.Context) {
	p := c.MustGet(middleware.CtxPergunta).(models.Pergunta)

	var respostas int64
	if err := config.DB.Model(&models.Resposta{}).
		Where("pergunta_id = ?", p.ID).
		Count(&respostas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível verificar respostas"})
		return
	}
	if respostas > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Pergunta já tem respostas gravadas e não pode ser excluída"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pergunta_id = ?", p.ID).Delete(&models.OpcaoPergunta{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Model(&models.Pergunta{}).
			Where("questionario_id = ? AND ordem > ?", p.QuestionarioID, p.Ordem).
			Update("ordem", gorm.Expr("ordem - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Exclusão falhou"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// asErroValidacao evita repetir a asserção de tipo em cada handler.
func asErroValidacao(err error, target **services.ErroValidacao) bool {
	ev, ok := err.(*services.ErroValidacao)
	if ok {
		*target = ev
	}
	return ok
}
