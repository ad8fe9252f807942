package models

import "time"

// Funcionario é o diretório de colaboradores usado como respondente
// identificado. O motor de questionários trata o ID como chave estrangeira
// opaca; pesquisas anônimas simplesmente não gravam referência nenhuma.
type Funcionario struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome       string     `gorm:"size:150;not null" json:"nome"`
	Email      string     `gorm:"size:150;unique;not null" json:"email"`
	Cargo      string     `gorm:"size:100" json:"cargo"`
	Setor      string     `gorm:"size:100" json:"setor"`
	AdmitidoEm *time.Time `gorm:"column:admitido_em" json:"admitido_em"`
	CriadoEm   time.Time  `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`

	Envios []Envio `gorm:"foreignKey:FuncionarioID" json:"-"`
}

func (Funcionario) TableName() string {
	return "funcionario"
}
