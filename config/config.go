package config

import (
	"fmt"
	"log"
	"os"

	"github.com/anaclaradev/pesquisa-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB abre a conexão com o PostgreSQL e roda o AutoMigrate.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Sao_Paulo",
		host, user, password, dbName, port)

	// TranslateError ligado para podermos tratar violação de índice único
	// (envio duplicado) como gorm.ErrDuplicatedKey no controller.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Usuario{},
		&models.Funcionario{},
		&models.Questionario{},
		&models.Pergunta{},
		&models.OpcaoPergunta{},
		&models.Envio{},
		&models.Resposta{},
		&models.ExportJob{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}
