package models

// Tipos de pergunta suportados pelo motor.
const (
	TipoTextoLivre   = "texto_livre"
	TipoEscolhaUnica = "escolha_unica"
	TipoEscala       = "escala_1_10"
	TipoData         = "data"
)

type Pergunta struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionarioID uint         `gorm:"not null;index" json:"questionario_id"`
	Questionario   Questionario `gorm:"foreignKey:QuestionarioID;constraint:OnDelete:CASCADE" json:"-"`
	Texto          string       `gorm:"type:text;not null" json:"texto"`
	Tipo           string       `gorm:"size:30;not null" json:"tipo"`
	Obrigatoria    bool         `gorm:"default:false" json:"obrigatoria"`
	// Ordem define a sequência de exibição e de análise. Não precisa ser
	// contígua; listagens ordenam por (ordem ASC, id ASC).
	Ordem int `gorm:"not null" json:"ordem"`

	Opcoes    []OpcaoPergunta `gorm:"foreignKey:PerguntaID" json:"opcoes"`
	Respostas []Resposta      `gorm:"foreignKey:PerguntaID" json:"-"`
}

func (Pergunta) TableName() string {
	return "pergunta"
}
