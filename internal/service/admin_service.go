package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ExcelGenerator interface {
	Generate(report model.BestClientsReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.BestClientsReport) ([]byte, error)
}

type AdminService struct {
	repo         ReportRepository
	excel        ExcelGenerator
	pdf          PDFGenerator
	clientsLimit int
	now          func() time.Time
}

type BestClientsInput struct {
	Period model.ReportPeriod
	// Limit <= 0 falls back to the configured default.
	Limit int
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewAdminService(repo ReportRepository, excel ExcelGenerator, pdf PDFGenerator, clientsLimit int) *AdminService {
	return &AdminService{
		repo:         repo,
		excel:        excel,
		pdf:          pdf,
		clientsLimit: clientsLimit,
		now:          time.Now,
	}
}

// BestProfession returns the contractor profession that earned the most
// in the period. Ties go to the lexicographically smallest profession.
func (s *AdminService) BestProfession(ctx context.Context, period model.ReportPeriod) (string, error) {
	if err := validatePeriod(period); err != nil {
		return "", err
	}
	rows, err := s.repo.ProfessionEarnings(ctx, period.Start, period.End)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	return rows[0].Profession, nil
}

func (s *AdminService) BestClients(ctx context.Context, input BestClientsInput) ([]model.ClientPayments, error) {
	if err := validatePeriod(input.Period); err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = s.clientsLimit
	}
	clients, err := s.repo.ClientPayments(ctx, input.Period.Start, input.Period.End, limit)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, ErrNotFound
	}
	return clients, nil
}

func (s *AdminService) ExportBestClients(ctx context.Context, input BestClientsInput) (*ExportResult, error) {
	report, err := s.bestClientsReport(ctx, input)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: buildFileName(*report, "xlsx"), Content: content}, nil
}

func (s *AdminService) ExportBestClientsPDF(ctx context.Context, input BestClientsInput) (*ExportResult, error) {
	report, err := s.bestClientsReport(ctx, input)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: buildFileName(*report, "pdf"), Content: content}, nil
}

func (s *AdminService) bestClientsReport(ctx context.Context, input BestClientsInput) (*model.BestClientsReport, error) {
	clients, err := s.BestClients(ctx, input)
	if err != nil {
		return nil, err
	}
	return &model.BestClientsReport{
		Period:      input.Period,
		GeneratedAt: s.now().UTC(),
		Clients:     clients,
	}, nil
}

func validatePeriod(period model.ReportPeriod) error {
	if period.Start.IsZero() || period.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if period.Start.After(period.End) {
		return fmt.Errorf("%w: start must be before or equal to end", ErrInvalidInput)
	}
	return nil
}

func buildFileName(report model.BestClientsReport, ext string) string {
	period := fmt.Sprintf("%s-%s", report.Period.Start.UTC().Format("20060102"), report.Period.End.UTC().Format("20060102"))
	return fmt.Sprintf("best-clients-%s-%s.%s", period, uuid.NewString()[:8], ext)
}
