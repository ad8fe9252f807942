package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/anaclaradev/pesquisa-server/controllers"
	"github.com/anaclaradev/pesquisa-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		funcionarios := api.Group("/funcionarios")
		funcionarios.Use(middleware.AuthJWT())
		{
			funcionarios.POST("", middleware.RequireAdmin(), controllers.CreateFuncionario)
			funcionarios.GET("", controllers.ListFuncionarios)
			funcionarios.GET("/:id", controllers.GetFuncionario)
		}

		questionarios := api.Group("/questionarios")
		{
			questionarios.POST("", middleware.AuthJWT(), middleware.RequireAdmin(),
				middleware.RateLimitQuestionarioCreate(), controllers.CreateQuestionario)
			questionarios.GET("", middleware.AuthJWT(), controllers.ListQuestionarios)
			questionarios.GET("/:id", middleware.AuthJWT(), controllers.GetQuestionarioDetail)
			questionarios.GET("/:id/perguntas", middleware.AuthJWT(),
				middleware.CarregarQuestionario(), controllers.ListPerguntas)

			// Escrita de definição: sempre admin, com o questionário
			// carregado pelo middleware.
			admin := questionarios.Group("/")
			admin.Use(middleware.AuthJWT(), middleware.RequireAdmin())
			{
				admin.PUT("/:id", middleware.CarregarQuestionario(), controllers.UpdateQuestionario)
				admin.PUT("/:id/ativar", middleware.CarregarQuestionario(), controllers.AtivarQuestionario)
				admin.PUT("/:id/encerrar", middleware.CarregarQuestionario(), controllers.EncerrarQuestionario)
				admin.DELETE("/:id", middleware.CarregarQuestionario(), controllers.DeleteQuestionario)
				admin.PUT("/:id/restaurar", controllers.RestaurarQuestionario)
				admin.POST("/:id/perguntas", middleware.CarregarQuestionario(), controllers.AddPergunta)
				admin.GET("/:id/envios", controllers.ListEnvios)
				admin.GET("/:id/envios/:envio_id", controllers.GetEnvioDetail)
				admin.GET("/:id/analise", middleware.CarregarQuestionario(), controllers.GetAnalise)
				admin.POST("/:id/export", middleware.CarregarQuestionario(), controllers.CreateExport)
			}
		}

		api.PUT("/perguntas/reorder", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.ReorderPerguntas)
		api.PUT("/perguntas/:id", middleware.AuthJWT(), middleware.RequireAdmin(),
			middleware.CarregarPergunta(), controllers.UpdatePergunta)
		api.DELETE("/perguntas/:id", middleware.AuthJWT(), middleware.RequireAdmin(),
			middleware.CarregarPergunta(), controllers.DeletePergunta)

		// Envio de respostas: aberto ao respondente, com ou sem login.
		api.POST("/questionarios/:id/envios", middleware.OptionalAuth(),
			middleware.RateLimitEnvio(), controllers.SubmitEnvio)

		api.GET("/exports/:job_id", middleware.AuthJWT(), controllers.GetExport)
	}
}
