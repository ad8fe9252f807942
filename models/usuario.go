package models

import "time"

type Usuario struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome     string    `gorm:"size:100;not null" json:"nome"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Senha    string    `gorm:"size:255;not null" json:"-"` // hash bcrypt, nunca vai no JSON
	Admin    bool      `gorm:"not null;default:false" json:"admin"`
	CriadoEm time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`

	Questionarios []Questionario `gorm:"foreignKey:CriadoPorID" json:"-"`
}

func (Usuario) TableName() string {
	return "usuario"
}
