package models

import "time"

// Envio é um lote de respostas: tudo que um respondente submeteu de uma vez
// para um questionário. O índice único (questionario_id, funcionario_id)
// garante no banco a regra de "responde uma vez só" para envios
// identificados; envios anônimos têm funcionario_id NULL e o Postgres trata
// NULLs como distintos, então não há limite para eles.
type Envio struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoteID         string    `gorm:"column:lote_id;size:36;uniqueIndex;not null" json:"lote_id"`
	QuestionarioID uint      `gorm:"column:questionario_id;not null;uniqueIndex:idx_envio_unico" json:"questionario_id"`
	FuncionarioID  *uint     `gorm:"column:funcionario_id;uniqueIndex:idx_envio_unico" json:"funcionario_id"`
	EnviadoEm      time.Time `gorm:"column:enviado_em;not null" json:"enviado_em"`

	Funcionario *Funcionario `gorm:"foreignKey:FuncionarioID" json:"-"`
	Respostas   []Resposta   `gorm:"foreignKey:EnvioID" json:"-"`
}

func (Envio) TableName() string {
	return "envio"
}
