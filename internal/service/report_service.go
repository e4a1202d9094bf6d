package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/ledger-service/internal/config"
	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
)

type ExcelGenerator interface {
	Generate(report model.ProfessionReport) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ReportService computes earnings per contractor profession over a fixed
// window taken from configuration.
type ReportService struct {
	repo        *repository.ReportRepository
	excel       ExcelGenerator
	windowStart time.Time
	windowEnd   time.Time
}

func NewReportService(repo *repository.ReportRepository, excel ExcelGenerator, cfg config.ReportConfig) *ReportService {
	return &ReportService{
		repo:        repo,
		excel:       excel,
		windowStart: cfg.WindowStart,
		windowEnd:   cfg.WindowEnd,
	}
}

func (s *ReportService) ProfessionReport(ctx context.Context) (*model.ProfessionReport, error) {
	rows, err := s.repo.PaidJobsInWindow(dbctx.New(ctx), s.windowStart, s.windowEnd)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	earnings := groupByProfession(rows)
	return &model.ProfessionReport{
		PeriodStart: s.windowStart,
		PeriodEnd:   s.windowEnd,
		Rows:        earnings,
		Best:        bestProfession(earnings),
	}, nil
}

func (s *ReportService) BestProfession(ctx context.Context) (*model.ProfessionEarning, error) {
	report, err := s.ProfessionReport(ctx)
	if err != nil {
		return nil, err
	}
	best := report.Best
	return &best, nil
}

func (s *ReportService) ExportProfessionReport(ctx context.Context) (*ExportResult, error) {
	report, err := s.ProfessionReport(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("professions-%s-%s.xlsx",
			report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102")),
		Content: content,
	}, nil
}

// groupByProfession sums prices per profession, keeping professions in the
// order they first appear in rows.
func groupByProfession(rows []model.PaidJobRow) []model.ProfessionEarning {
	result := make([]model.ProfessionEarning, 0)
	index := make(map[string]int)

	for _, row := range rows {
		pos, ok := index[row.Profession]
		if !ok {
			result = append(result, model.ProfessionEarning{Profession: row.Profession, Earned: decimal.Zero})
			pos = len(result) - 1
			index[row.Profession] = pos
		}
		result[pos].Earned = result[pos].Earned.Add(row.Price)
	}
	return result
}

// bestProfession picks the highest earner. On a tie the profession seen
// first wins.
func bestProfession(earnings []model.ProfessionEarning) model.ProfessionEarning {
	best := model.ProfessionEarning{Earned: decimal.Zero}
	for _, e := range earnings {
		if e.Earned.GreaterThan(best.Earned) {
			best = e
		}
	}
	return best
}
