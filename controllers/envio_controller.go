package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/models"
	"github.com/anaclaradev/pesquisa-server/services"
)

type respostaReq struct {
	PerguntaID  uint    `json:"pergunta_id" binding:"required"`
	ValorEscala *int    `json:"valor_escala"`
	ValorTexto  *string `json:"valor_texto"`
	ValorData   *string `json:"valor_data"` // "2006-01-02"
}

type submitEnvioReq struct {
	FuncionarioID *uint         `json:"funcionario_id"` // ausente = envio anônimo
	Respostas     []respostaReq `json:"respostas" binding:"required"`
}

// SubmitEnvio grava um lote de respostas. Ou o lote inteiro entra, ou nada
// entra: validação completa antes de abrir a transação e todas as linhas
// dentro dela.
func SubmitEnvio(c *gin.Context) {
	questionarioID, err := strconv.Atoi(c.Param("id"))
	if err != nil || questionarioID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var q models.Questionario
	if err := config.DB.Where("id = ? AND status <> ?", questionarioID, models.StatusExcluida).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Questionário não existe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o questionário"})
		return
	}
	// Envio para questionário encerrado continua aceito: o comportamento do
	// sistema sempre foi esse e há links de pesquisa que circulam por email
	// depois do encerramento formal.

	var req submitEnvioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	entradas := make([]services.RespostaEntrada, 0, len(req.Respostas))
	for _, r := range req.Respostas {
		e := services.RespostaEntrada{
			PerguntaID:  r.PerguntaID,
			ValorEscala: r.ValorEscala,
			ValorTexto:  r.ValorTexto,
		}
		if r.ValorData != nil {
			t, perr := time.Parse("2006-01-02", *r.ValorData)
			if perr != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"message": fmt.Sprintf("valor_data da pergunta %d deve estar no formato AAAA-MM-DD", r.PerguntaID),
				})
				return
			}
			e.ValorData = &t
		}
		entradas = append(entradas, e)
	}

	var perguntas []models.Pergunta
	if err := config.DB.
		Where("questionario_id = ?", q.ID).
		Preload("Opcoes").
		Order("ordem ASC, id ASC").
		Find(&perguntas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível carregar as perguntas"})
		return
	}

	if err := services.ValidarRespostas(perguntas, entradas); err != nil {
		var ev *services.ErroValidacao
		if asErroValidacao(err, &ev) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": ev.Msg, "campo": ev.Campo})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if req.FuncionarioID != nil {
		var f models.Funcionario
		if err := config.DB.First(&f, *req.FuncionarioID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Funcionário não existe"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível validar o funcionário"})
			return
		}

		// Caminho rápido; a garantia de verdade é o índice único tratado
		// logo abaixo.
		var count int64
		config.DB.Model(&models.Envio{}).
			Where("questionario_id = ? AND funcionario_id = ?", q.ID, *req.FuncionarioID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": services.ErrJaRespondeu.Error()})
			return
		}
	}

	envio := models.Envio{
		LoteID:         uuid.New().String(),
		QuestionarioID: q.ID,
		FuncionarioID:  req.FuncionarioID,
		EnviadoEm:      time.Now(),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&envio).Error; err != nil {
			return err
		}
		for _, e := range entradas {
			resp := models.Resposta{
				EnvioID:     envio.ID,
				PerguntaID:  e.PerguntaID,
				ValorEscala: e.ValorEscala,
				ValorTexto:  e.ValorTexto,
				ValorData:   e.ValorData,
			}
			if err := tx.Create(&resp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// corrida entre dois envios do mesmo funcionário: o índice
			// único derruba o segundo
			c.JSON(http.StatusConflict, gin.H{"message": services.ErrJaRespondeu.Error()})
			return
		}
		log.Printf("erro ao gravar envio do questionário %d: %v", q.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível gravar o envio"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lote_id":    envio.LoteID,
		"enviado_em": envio.EnviadoEm,
	})
}

// GET /api/questionarios/:id/envios?page=1&limit=10&de=2026-01-01&ate=2026-02-01
func ListEnvios(c *gin.Context) {
	questionarioID, err := strconv.Atoi(c.Param("id"))
	if err != nil || questionarioID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var q models.Questionario
	if err := config.DB.First(&q, questionarioID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Questionário não existe"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Envio{}).
		Where("questionario_id = ?", questionarioID)

	if de := c.Query("de"); de != "" {
		if t, err := time.Parse("2006-01-02", de); err == nil {
			query = query.Where("enviado_em >= ?", t)
		}
	}
	if ate := c.Query("ate"); ate != "" {
		if t, err := time.Parse("2006-01-02", ate); err == nil {
			// +1 dia para incluir o dia final inteiro
			query = query.Where("enviado_em < ?", t.Add(24*time.Hour))
		}
	}

	var total int64
	query.Count(&total)

	var envios []models.Envio
	if err := query.
		Preload("Funcionario").
		Preload("Respostas").
		Order("enviado_em DESC").
		Limit(limit).Offset(offset).
		Find(&envios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível listar os envios"})
		return
	}

	resp := []gin.H{}
	for _, e := range envios {
		respostas := []gin.H{}
		for _, r := range e.Respostas {
			respostas = append(respostas, gin.H{
				"pergunta_id":  r.PerguntaID,
				"valor_escala": r.ValorEscala,
				"valor_texto":  r.ValorTexto,
				"valor_data":   r.ValorData,
			})
		}

		item := gin.H{
			"id":         e.ID,
			"lote_id":    e.LoteID,
			"enviado_em": e.EnviadoEm,
			"respostas":  respostas,
		}
		if e.Funcionario != nil {
			item["funcionario"] = gin.H{"id": e.Funcionario.ID, "nome": e.Funcionario.Nome}
		}
		resp = append(resp, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"questionario_id": questionarioID,
		"page":            page,
		"limit":           limit,
		"total":           total,
		"envios":          resp,
	})
}

// GET /api/questionarios/:id/envios/:envio_id
func GetEnvioDetail(c *gin.Context) {
	questionarioID, err := strconv.Atoi(c.Param("id"))
	if err != nil || questionarioID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	envioID, err := strconv.Atoi(c.Param("envio_id"))
	if err != nil || envioID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID de envio inválido"})
		return
	}

	var envio models.Envio
	if err := config.DB.
		Preload("Funcionario").
		Preload("Respostas").
		Where("id = ? AND questionario_id = ?", envioID, questionarioID).
		First(&envio).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Envio não existe"})
		return
	}

	respostas := []gin.H{}
	for _, r := range envio.Respostas {
		respostas = append(respostas, gin.H{
			"pergunta_id":  r.PerguntaID,
			"valor_escala": r.ValorEscala,
			"valor_texto":  r.ValorTexto,
			"valor_data":   r.ValorData,
		})
	}

	resp := gin.H{
		"id":              envio.ID,
		"lote_id":         envio.LoteID,
		"questionario_id": envio.QuestionarioID,
		"enviado_em":      envio.EnviadoEm,
		"respostas":       respostas,
	}
	if envio.Funcionario != nil {
		resp["funcionario"] = gin.H{"id": envio.Funcionario.ID, "nome": envio.Funcionario.Nome}
	}

	c.JSON(http.StatusOK, resp)
}
