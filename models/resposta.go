package models

import "time"

// Resposta guarda o valor de uma pergunta dentro de um envio. Exatamente um
// dos três campos de valor fica preenchido conforme o tipo da pergunta; os
// três vazios significam "não respondida" (válido para pergunta opcional).
// Respostas são imutáveis depois de gravadas: não existe endpoint de update.
type Resposta struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EnvioID     uint       `gorm:"not null;index" json:"envio_id"`
	Envio       Envio      `gorm:"foreignKey:EnvioID;constraint:OnDelete:CASCADE" json:"-"`
	PerguntaID  uint       `gorm:"not null;index" json:"pergunta_id"`
	Pergunta    Pergunta   `gorm:"foreignKey:PerguntaID" json:"-"`
	ValorEscala *int       `gorm:"column:valor_escala" json:"valor_escala"`
	ValorTexto  *string    `gorm:"column:valor_texto;type:text" json:"valor_texto"`
	ValorData   *time.Time `gorm:"column:valor_data" json:"valor_data"`
}

func (Resposta) TableName() string {
	return "resposta"
}
