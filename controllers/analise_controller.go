package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
	"github.com/anaclaradev/pesquisa-server/services"
)

// GetAnalise devolve o resumo por pergunta de todos os envios do
// questionário. Questionário sem envio retorna o resumo zerado (200), não
// erro. Dashboard vazio é estado normal de pesquisa recém-aberta.
func GetAnalise(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	var perguntas []models.Pergunta
	if err := config.DB.
		Where("questionario_id = ?", q.ID).
		Preload("Opcoes", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		Order("ordem ASC, id ASC").
		Find(&perguntas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível carregar as perguntas"})
		return
	}

	// Ordem de submissão preservada para a listagem de texto livre.
	var envios []models.Envio
	if err := config.DB.
		Where("questionario_id = ?", q.ID).
		Preload("Funcionario").
		Preload("Respostas").
		Order("enviado_em ASC, id ASC").
		Find(&envios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível carregar os envios"})
		return
	}

	c.JSON(http.StatusOK, services.Tabular(q, perguntas, envios))
}
