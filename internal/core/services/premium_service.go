package services

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/core/domain"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PremiumService handles the premium lookup table
type PremiumService struct {
	premiumRepo repositories.PremiumRepository
}

// NewPremiumService creates a new premium service
func NewPremiumService(premiumRepo repositories.PremiumRepository) *PremiumService {
	return &PremiumService{premiumRepo: premiumRepo}
}

// ImportReport summarizes an Excel import run
type ImportReport struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	Modified int `json:"modified"`
}

// LookupResult is a premium lookup answer, flagging bracket fallback
type LookupResult struct {
	Premium      *models.Premium `json:"premium"`
	IsExactMatch bool            `json:"isExactMatch"`
}

// ImportExcel loads premium brackets from a spreadsheet. Column 0 is the
// loan amount, column N the premium for policy year N. The header row and
// any non-numeric cells are skipped; values are rounded to whole rupees.
func (s *PremiumService) ImportExcel(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrInvalidInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		loanAmount, err := parseCell(row[0])
		if err != nil {
			continue
		}
		for year := 1; year < len(row); year++ {
			value, err := parseCell(row[year])
			if err != nil {
				continue
			}
			premium := &models.Premium{
				LoanAmount:    loanAmount,
				Year:          year,
				PremiumAmount: int(math.Round(value)),
			}
			created, err := s.premiumRepo.Upsert(ctx, premium)
			if err != nil {
				return nil, err
			}
			report.Total++
			if created {
				report.Created++
			} else {
				report.Modified++
			}
		}
	}

	if report.Total == 0 {
		return nil, domain.ErrInvalidInput
	}

	log.Printf("✅ Premium import: %d rows (%d new, %d updated)", report.Total, report.Created, report.Modified)
	return report, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(cell, 64)
}

// Lookup resolves the premium for a loan amount and policy year. An exact
// bracket wins; otherwise the next higher bracket for the same year is
// used and flagged as inexact.
func (s *PremiumService) Lookup(ctx context.Context, loanAmount float64, year int) (*LookupResult, error) {
	if loanAmount <= 0 || year < 1 {
		return nil, domain.ErrInvalidInput
	}

	premium, err := s.premiumRepo.GetExact(ctx, loanAmount, year)
	if err == nil {
		return &LookupResult{Premium: premium, IsExactMatch: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	premium, err = s.premiumRepo.GetNextBracket(ctx, loanAmount, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPremiumNotFound
		}
		return nil, err
	}
	return &LookupResult{Premium: premium, IsExactMatch: false}, nil
}
