package models

type OpcaoPergunta struct {
	ID         uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	PerguntaID uint     `gorm:"not null;index" json:"pergunta_id"`
	Pergunta   Pergunta `gorm:"foreignKey:PerguntaID;constraint:OnDelete:CASCADE" json:"-"`
	Texto      string   `gorm:"type:text;not null" json:"texto"`
	Ordem      int      `gorm:"default:0" json:"ordem"`
}

func (OpcaoPergunta) TableName() string {
	return "opcao_pergunta"
}
