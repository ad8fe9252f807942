package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/models"
)

// CarregarQuestionario resolve :id, descarta questionário excluído e deixa o
// objeto pronto no contexto para o handler.
func CarregarQuestionario() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
			return
		}

		var q models.Questionario
		if e := config.DB.Where("id = ? AND status <> ?", id, models.StatusExcluida).First(&q).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Questionário não existe"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o questionário"})
			return
		}

		c.Set(CtxQuestionario, q)
		c.Next()
	}
}

// CarregarPergunta resolve :id de pergunta e confere que o questionário dono
// ainda existe (não excluído).
func CarregarPergunta() gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := strconv.Atoi(c.Param("id"))
		if err != nil || pid <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
			return
		}

		var p models.Pergunta
		if e := config.DB.First(&p, pid).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Pergunta não existe"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler a pergunta"})
			return
		}

		var q models.Questionario
		if e := config.DB.Select("id, status").
			Where("id = ? AND status <> ?", p.QuestionarioID, models.StatusExcluida).
			First(&q).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Questionário não existe ou foi excluído"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o questionário"})
			return
		}

		c.Set(CtxPergunta, p)
		c.Next()
	}
}
