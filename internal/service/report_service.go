package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"posmorales/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportDispatcher enqueues the async export job.
type ReportDispatcher interface {
	EnqueueReport(ctx context.Context, payload interface{}) error
}

// ReportService schedules Excel exports of the sales ledger. The export runs
// on the worker pool; this service only validates the range and names the
// output file.
type ReportService interface {
	Export(ctx context.Context, req dto.ExportReportRequest) (*dto.ExportReportResponse, error)
}

type reportService struct {
	dispatcher  ReportDispatcher
	storagePath string
}

func NewReportService(dispatcher ReportDispatcher, storagePath string) ReportService {
	return &reportService{dispatcher: dispatcher, storagePath: storagePath}
}

func (s *reportService) Export(ctx context.Context, req dto.ExportReportRequest) (*dto.ExportReportResponse, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return nil, fmt.Errorf("fecha desde invalida: %w", err)
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return nil, fmt.Errorf("fecha hasta invalida: %w", err)
	}
	if to.Before(from) {
		return nil, errors.New("el rango de fechas esta invertido")
	}

	jobID := uuid.NewString()
	fileName := fmt.Sprintf("ventas_%s_%s.xlsx", req.From, req.To)

	payload := map[string]interface{}{
		"job_id":    jobID,
		"from":      req.From,
		"to":        req.To,
		"file_name": fileName,
	}
	if err := s.dispatcher.EnqueueReport(ctx, payload); err != nil {
		return nil, fmt.Errorf("no se pudo encolar el reporte: %w", err)
	}

	log.Info().Str("job_id", jobID).Str("from", req.From).Str("to", req.To).Msg("report: export enqueued")
	return &dto.ExportReportResponse{
		JobID: jobID,
		Path:  filepath.Join(s.storagePath, fileName),
	}, nil
}
