package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
)

type createQuestionarioReq struct {
	Titulo    string `json:"titulo" binding:"required,min=1"`
	Descricao string `json:"descricao"`
	Categoria string `json:"categoria" binding:"required,min=1"`
	Ativa     *bool  `json:"ativa"` // default true
}

func CreateQuestionario(c *gin.Context) {
	u := c.MustGet(middleware.CtxUsuario).(models.Usuario)

	var req createQuestionarioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	ativa := true
	if req.Ativa != nil {
		ativa = *req.Ativa
	}
	status := models.StatusAtiva
	if !ativa {
		status = models.StatusRascunho
	}

	q := models.Questionario{
		Titulo:      req.Titulo,
		Descricao:   req.Descricao,
		Categoria:   req.Categoria,
		Ativa:       ativa,
		Status:      status,
		CriadoPorID: &u.ID,
	}

	if err := config.DB.Create(&q).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível criar o questionário"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        q.ID,
		"titulo":    q.Titulo,
		"descricao": q.Descricao,
		"categoria": q.Categoria,
		"ativa":     q.Ativa,
		"status":    q.Status,
		"criado_em": q.CriadoEm,
	})
}

// GET /api/questionarios?categoria=clima&ativa=true
func ListQuestionarios(c *gin.Context) {
	query := config.DB.Model(&models.Questionario{}).
		Where("status <> ?", models.StatusExcluida)

	if categoria := c.Query("categoria"); categoria != "" {
		query = query.Where("categoria = ?", categoria)
	}
	if ativa := c.Query("ativa"); ativa != "" {
		query = query.Where("ativa = ?", ativa == "true")
	}

	var questionarios []models.Questionario
	if err := query.Order("criado_em DESC").Find(&questionarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível listar questionários"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionarios": questionarios})
}

func GetQuestionarioDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var q models.Questionario
	err = config.DB.
		Where("id = ? AND status <> ?", id, models.StatusExcluida).
		Preload("Perguntas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		Preload("Perguntas.Opcoes", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		First(&q).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Questionário não existe"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o questionário"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        q.ID,
		"titulo":    q.Titulo,
		"descricao": q.Descricao,
		"categoria": q.Categoria,
		"ativa":     q.Ativa,
		"status":    q.Status,
		"criado_em": q.CriadoEm,
		"perguntas": q.Perguntas,
	})
}

type updateQuestionarioReq struct {
	Titulo    *string `json:"titulo"`
	Descricao *string `json:"descricao"`
	Categoria *string `json:"categoria"`
}

func UpdateQuestionario(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	var req updateQuestionarioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Titulo != nil {
		updates["titulo"] = *req.Titulo
	}
	if req.Descricao != nil {
		updates["descricao"] = *req.Descricao
	}
	if req.Categoria != nil {
		updates["categoria"] = *req.Categoria
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nada para atualizar"})
		return
	}

	if err := config.DB.Model(&models.Questionario{}).
		Where("id = ?", q.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Atualização falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// AtivarQuestionario marca este questionário como o ativo da categoria e
// desativa os irmãos na mesma transação: a convenção de "um ativo por
// categoria" deixa de depender de disciplina manual.
func AtivarQuestionario(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Questionario{}).
			Where("categoria = ? AND id <> ? AND status <> ?", q.Categoria, q.ID, models.StatusExcluida).
			Update("ativa", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Questionario{}).
			Where("id = ?", q.ID).
			Updates(map[string]interface{}{"ativa": true, "status": models.StatusAtiva}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ativação falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ativada"})
}

func EncerrarQuestionario(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)
	if err := config.DB.Model(&models.Questionario{}).
		Where("id = ?", q.ID).
		Updates(map[string]interface{}{"ativa": false, "status": models.StatusEncerrada}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Encerramento falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "encerrada"})
}

// DeleteQuestionario é exclusão lógica: envios históricos continuam no banco
// para auditoria, só somem das listagens.
func DeleteQuestionario(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)
	if err := config.DB.Model(&models.Questionario{}).
		Where("id = ?", q.ID).
		Updates(map[string]interface{}{"ativa": false, "status": models.StatusExcluida}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Exclusão falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// RestaurarQuestionario volta como rascunho: reativar na categoria é decisão
// explícita via AtivarQuestionario.
func RestaurarQuestionario(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var q models.Questionario
	if e := config.DB.First(&q, id).Error; e != nil {
		if errors.Is(e, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Questionário não existe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o questionário"})
		return
	}

	if err := config.DB.Model(&models.Questionario{}).
		Where("id = ?", q.ID).
		Updates(map[string]interface{}{"ativa": false, "status": models.StatusRascunho}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Restauração falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restaurada"})
}
