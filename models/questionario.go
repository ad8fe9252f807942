package models

import "time"

// Status possíveis de um questionário. A convenção do RH é manter no máximo
// um questionário ativo por categoria; a ativação explícita (controller)
// desativa os irmãos da mesma categoria.
const (
	StatusRascunho  = "rascunho"
	StatusAtiva     = "ativa"
	StatusEncerrada = "encerrada"
	StatusExcluida  = "excluida" // exclusão é sempre lógica, nunca física
)

type Questionario struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Titulo      string    `gorm:"column:titulo;size:255;not null" json:"titulo"`
	Descricao   string    `gorm:"column:descricao;type:text" json:"descricao"`
	Categoria   string    `gorm:"column:categoria;size:60;not null;index" json:"categoria"` // ex.: "offboarding-funcionario", "clima", "experiencia", "pdi"
	Ativa       bool      `gorm:"column:ativa;default:true" json:"ativa"`
	Status      string    `gorm:"column:status;size:20;default:'ativa'" json:"status"`
	CriadoPorID *uint     `gorm:"column:criado_por_id" json:"criado_por_id"`
	CriadoEm    time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`

	CriadoPor *Usuario `gorm:"foreignKey:CriadoPorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Relações
	Perguntas []Pergunta `gorm:"foreignKey:QuestionarioID" json:"-"`
	Envios    []Envio    `gorm:"foreignKey:QuestionarioID" json:"-"`
}

func (Questionario) TableName() string {
	return "questionario"
}
