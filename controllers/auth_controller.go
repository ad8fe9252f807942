package controllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
	"github.com/anaclaradev/pesquisa-server/utils"
)

type registerReq struct {
	Nome  string `json:"nome" binding:"required,min=1"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required,min=6"`
	Admin bool   `json:"admin"`
}

// Register cria contas de usuário do back-office. Só admin provisiona conta
// nova; o RH não tem autocadastro.
func Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Usuario{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email já cadastrado"})
		return
	}

	hash, err := utils.HashPassword(req.Senha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível gerar o hash da senha"})
		return
	}

	u := models.Usuario{
		Nome:  req.Nome,
		Email: req.Email,
		Senha: hash,
		Admin: req.Admin,
	}

	if err := config.DB.Create(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível criar a conta"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":        u.ID,
			"nome":      u.Nome,
			"email":     u.Email,
			"admin":     u.Admin,
			"criado_em": u.CriadoEm,
		},
	})
}

type loginReq struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var u models.Usuario
	if err := config.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou senha inválidos"})
		return
	}
	if !utils.CheckPassword(u.Senha, req.Senha) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou senha inválidos"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprintf("%d", u.ID), u.Admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível emitir o token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    u.ID,
			"nome":  u.Nome,
			"email": u.Email,
			"admin": u.Admin,
		},
	})
}

type googleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler aceita o id_token do Google Workspace da empresa. A
// conta precisa existir previamente no back-office; login social não
// provisiona usuário novo.
func GoogleLoginHandler(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "GOOGLE_CLIENT_ID não configurado"})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, clientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token do Google inválido"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token do Google sem email"})
		return
	}

	var u models.Usuario
	if err := config.DB.Where("email = ?", email).First(&u).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Conta não provisionada no back-office"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprintf("%d", u.ID), u.Admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível emitir o token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    u.ID,
			"nome":  u.Nome,
			"email": u.Email,
			"admin": u.Admin,
		},
	})
}

func Me(c *gin.Context) {
	u := c.MustGet(middleware.CtxUsuario).(models.Usuario)
	c.JSON(http.StatusOK, gin.H{
		"id":        u.ID,
		"nome":      u.Nome,
		"email":     u.Email,
		"admin":     u.Admin,
		"criado_em": u.CriadoEm,
	})
}
