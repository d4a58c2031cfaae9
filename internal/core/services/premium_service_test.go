package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"welin-backend/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

// buildPremiumSheet writes a premium workbook: column A holds loan
// amounts, columns B..E hold premiums for policy years 1..4.
func buildPremiumSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []interface{}{"Loan Amount", "Year 1", "Year 2", "Year 3", "Year 4"}
	for col, v := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestImportExcel(t *testing.T) {
	repo := &fakePremiumRepo{}
	svc := NewPremiumService(repo)

	buf := buildPremiumSheet(t, [][]interface{}{
		{100000, 1000, 900, 800, 700},
		{200000, 1800.4, 1600.6, 1400, 1200},
	})

	report, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel failed: %v", err)
	}
	if report.Total != 8 {
		t.Errorf("total = %d, want 8", report.Total)
	}
	if report.Created != 8 || report.Modified != 0 {
		t.Errorf("created/modified = %d/%d, want 8/0", report.Created, report.Modified)
	}

	// Fractional premiums round to whole rupees
	row, err := repo.GetExact(context.Background(), 200000, 1)
	if err != nil {
		t.Fatalf("GetExact failed: %v", err)
	}
	if row.PremiumAmount != 1800 {
		t.Errorf("rounded premium = %d, want 1800", row.PremiumAmount)
	}
	row, _ = repo.GetExact(context.Background(), 200000, 2)
	if row.PremiumAmount != 1601 {
		t.Errorf("rounded premium = %d, want 1601", row.PremiumAmount)
	}
}

func TestImportExcelUpsertsExistingBrackets(t *testing.T) {
	repo := &fakePremiumRepo{}
	svc := NewPremiumService(repo)

	first := buildPremiumSheet(t, [][]interface{}{{100000, 1000, 900, 800, 700}})
	if _, err := svc.ImportExcel(context.Background(), first); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := buildPremiumSheet(t, [][]interface{}{
		{100000, 1100, 950, 850, 750},
		{300000, 2500, 2300, 2100, 1900},
	})
	report, err := svc.ImportExcel(context.Background(), second)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if report.Modified != 4 {
		t.Errorf("modified = %d, want 4", report.Modified)
	}
	if report.Created != 4 {
		t.Errorf("created = %d, want 4", report.Created)
	}

	row, _ := repo.GetExact(context.Background(), 100000, 1)
	if row.PremiumAmount != 1100 {
		t.Errorf("updated premium = %d, want 1100", row.PremiumAmount)
	}
}

func TestImportExcelSkipsNonNumericRows(t *testing.T) {
	repo := &fakePremiumRepo{}
	svc := NewPremiumService(repo)

	buf := buildPremiumSheet(t, [][]interface{}{
		{"n/a", 1000, 900, 800, 700},
		{100000, 1000, "tbd", 800, 700},
	})

	report, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel failed: %v", err)
	}
	// First row dropped entirely, one bad cell dropped from the second
	if report.Total != 3 {
		t.Errorf("total = %d, want 3", report.Total)
	}
}

func TestImportExcelRejectsEmptySheet(t *testing.T) {
	svc := NewPremiumService(&fakePremiumRepo{})

	buf := buildPremiumSheet(t, nil)
	if _, err := svc.ImportExcel(context.Background(), buf); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.ImportExcel(context.Background(), bytes.NewReader([]byte("not a workbook"))); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("garbage err = %v, want ErrInvalidInput", err)
	}
}

func TestLookup(t *testing.T) {
	repo := &fakePremiumRepo{}
	svc := NewPremiumService(repo)

	buf := buildPremiumSheet(t, [][]interface{}{
		{100000, 1000, 900, 800, 700},
		{200000, 1800, 1600, 1400, 1200},
	})
	if _, err := svc.ImportExcel(context.Background(), buf); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	exact, err := svc.Lookup(context.Background(), 100000, 2)
	if err != nil {
		t.Fatalf("exact Lookup failed: %v", err)
	}
	if !exact.IsExactMatch || exact.Premium.PremiumAmount != 900 {
		t.Errorf("exact lookup = %+v", exact)
	}

	// Between brackets: the next higher bracket answers, flagged inexact
	bracket, err := svc.Lookup(context.Background(), 150000, 1)
	if err != nil {
		t.Fatalf("bracket Lookup failed: %v", err)
	}
	if bracket.IsExactMatch {
		t.Error("bracket fallback should not claim an exact match")
	}
	if bracket.Premium.LoanAmount != 200000 || bracket.Premium.PremiumAmount != 1800 {
		t.Errorf("bracket lookup = %+v", bracket.Premium)
	}

	// Above the top bracket: nothing covers it
	if _, err := svc.Lookup(context.Background(), 250000, 1); !errors.Is(err, domain.ErrPremiumNotFound) {
		t.Errorf("uncovered err = %v, want ErrPremiumNotFound", err)
	}

	if _, err := svc.Lookup(context.Background(), -5, 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative err = %v, want ErrInvalidInput", err)
	}
}
