package models

import "time"

type ExportJob struct {
	JobID          string     `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	QuestionarioID uint       `gorm:"column:questionario_id;index" json:"questionario_id"`
	Formato        string     `gorm:"column:formato;size:10" json:"formato"` // csv, xlsx
	PeriodoDe      *time.Time `gorm:"column:periodo_de" json:"periodo_de,omitempty"`
	PeriodoAte     *time.Time `gorm:"column:periodo_ate" json:"periodo_ate,omitempty"`
	Status         string     `gorm:"column:status;size:20;default:'queued'" json:"status"`
	Arquivo        *string    `gorm:"column:arquivo;type:text" json:"arquivo,omitempty"`
	ErroMsg        *string    `gorm:"column:erro_msg;type:text" json:"erro_msg,omitempty"`
	CriadoEm       time.Time  `gorm:"autoCreateTime" json:"criado_em"`
	AtualizadoEm   time.Time  `gorm:"autoUpdateTime" json:"atualizado_em"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
