package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/models"
)

type createFuncionarioReq struct {
	Nome       string  `json:"nome" binding:"required,min=1"`
	Email      string  `json:"email" binding:"required,email"`
	Cargo      string  `json:"cargo"`
	Setor      string  `json:"setor"`
	AdmitidoEm *string `json:"admitido_em"` // "2006-01-02"
}

func CreateFuncionario(c *gin.Context) {
	var req createFuncionarioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload inválido", "error": err.Error()})
		return
	}

	f := models.Funcionario{
		Nome:  req.Nome,
		Email: req.Email,
		Cargo: req.Cargo,
		Setor: req.Setor,
	}
	if req.AdmitidoEm != nil {
		t, err := time.Parse("2006-01-02", *req.AdmitidoEm)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "admitido_em deve estar no formato AAAA-MM-DD"})
			return
		}
		f.AdmitidoEm = &t
	}

	if err := config.DB.Create(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email já cadastrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível cadastrar o funcionário"})
		return
	}

	c.JSON(http.StatusCreated, f)
}

// GET /api/funcionarios?page=1&limit=20&setor=TI
func ListFuncionarios(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Funcionario{})
	if setor := c.Query("setor"); setor != "" {
		query = query.Where("setor = ?", setor)
	}

	var total int64
	query.Count(&total)

	var funcionarios []models.Funcionario
	if err := query.Order("nome ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&funcionarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível listar funcionários"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":         page,
		"limit":        limit,
		"total":        total,
		"funcionarios": funcionarios,
	})
}

func GetFuncionario(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var f models.Funcionario
	if err := config.DB.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Funcionário não existe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível ler o funcionário"})
		return
	}
	c.JSON(http.StatusOK, f)
}
