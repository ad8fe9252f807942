package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/anaclaradev/pesquisa-server/config"
	"github.com/anaclaradev/pesquisa-server/middleware"
	"github.com/anaclaradev/pesquisa-server/models"
)

type exportRequest struct {
	Formato    string  `json:"formato"` // csv (default) | xlsx
	PeriodoDe  *string `json:"periodo_de,omitempty"`
	PeriodoAte *string `json:"periodo_ate,omitempty"`
}

// POST /api/questionarios/:id/export
func CreateExport(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestionario).(models.Questionario)

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload inválido"})
		return
	}
	if req.Formato == "" {
		req.Formato = "csv"
	}
	if req.Formato != "csv" && req.Formato != "xlsx" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "formato deve ser csv ou xlsx"})
		return
	}

	var dePtr, atePtr *time.Time
	if req.PeriodoDe != nil {
		if t, err := time.Parse(time.RFC3339, *req.PeriodoDe); err == nil {
			dePtr = &t
		}
	}
	if req.PeriodoAte != nil {
		if t, err := time.Parse(time.RFC3339, *req.PeriodoAte); err == nil {
			atePtr = &t
		}
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:          jobID,
		QuestionarioID: q.ID,
		Formato:        req.Formato,
		PeriodoDe:      dePtr,
		PeriodoAte:     atePtr,
		Status:         "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível registrar o job de exportação"})
		return
	}

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GET /api/exports/:job_id
func GetExport(c *gin.Context) {
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro de banco"})
		return
	}

	if job.Status == "done" && job.Arquivo != nil {
		c.FileAttachment(*job.Arquivo, path.Base(*job.Arquivo))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErroMsg,
	})
}

func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	falhou := func(err error) {
		em := err.Error()
		config.DB.Model(&job).Updates(map[string]interface{}{"status": "failed", "erro_msg": em})
	}

	linhas, err := montarLinhasExport(job)
	if err != nil {
		falhou(err)
		return
	}

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)
	outPath := path.Join(outDir, fmt.Sprintf("export_%s.%s", job.JobID, job.Formato))

	switch job.Formato {
	case "xlsx":
		err = escreverXLSX(outPath, linhas)
	default:
		err = escreverCSV(outPath, linhas)
	}
	if err != nil {
		falhou(err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "arquivo": outPath})
}

// montarLinhasExport gera a planilha: uma linha por envio, uma coluna por
// pergunta (na ordem do questionário).
func montarLinhasExport(job models.ExportJob) ([][]string, error) {
	var perguntas []models.Pergunta
	if err := config.DB.
		Where("questionario_id = ?", job.QuestionarioID).
		Order("ordem ASC, id ASC").
		Find(&perguntas).Error; err != nil {
		return nil, err
	}

	q := config.DB.Preload("Funcionario").Preload("Respostas").
		Where("questionario_id = ?", job.QuestionarioID)
	if job.PeriodoDe != nil {
		q = q.Where("enviado_em >= ?", job.PeriodoDe)
	}
	if job.PeriodoAte != nil {
		q = q.Where("enviado_em <= ?", job.PeriodoAte)
	}
	var envios []models.Envio
	if err := q.Order("enviado_em ASC, id ASC").Find(&envios).Error; err != nil {
		return nil, err
	}

	header := []string{"lote_id", "funcionario", "enviado_em"}
	for _, p := range perguntas {
		header = append(header, p.Texto)
	}
	linhas := [][]string{header}

	for _, e := range envios {
		nome := ""
		if e.Funcionario != nil {
			nome = e.Funcionario.Nome
		}
		porPergunta := make(map[uint]string, len(e.Respostas))
		for _, r := range e.Respostas {
			porPergunta[r.PerguntaID] = formatarValor(r)
		}

		linha := []string{e.LoteID, nome, e.EnviadoEm.Format(time.RFC3339)}
		for _, p := range perguntas {
			linha = append(linha, porPergunta[p.ID])
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

func formatarValor(r models.Resposta) string {
	switch {
	case r.ValorEscala != nil:
		return fmt.Sprintf("%d", *r.ValorEscala)
	case r.ValorTexto != nil:
		return *r.ValorTexto
	case r.ValorData != nil:
		return r.ValorData.Format("2006-01-02")
	}
	return ""
}

func escreverCSV(outPath string, linhas [][]string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, linha := range linhas {
		if err := w.Write(linha); err != nil {
			return err
		}
	}
	return nil
}

func escreverXLSX(outPath string, linhas [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Envios"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, linha := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &linha); err != nil {
			return err
		}
	}
	return f.SaveAs(outPath)
}
