package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campus-states/internal/model"
)

// CountryCoverage counts records with a state for one country.
type CountryCoverage struct {
	Country   string `json:"country"`
	Total     int    `json:"total"`
	WithState int    `json:"with_state"`
}

// Percent returns WithState as a percentage of Total.
func (c CountryCoverage) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.WithState) * 100 / float64(c.Total)
}

// CoverageReport is the state coverage of a dataset.
type CoverageReport struct {
	CountryCoverage
	// Countries is ordered by record count, largest first.
	Countries []CountryCoverage `json:"countries"`
}

// Coverage computes overall and per-country state coverage. Records without
// a country are counted under "(none)".
func Coverage(records []model.University) CoverageReport {
	byCountry := make(map[string]*CountryCoverage)
	report := CoverageReport{CountryCoverage: CountryCoverage{Country: "All"}}

	for i := range records {
		country := strings.TrimSpace(records[i].Country)
		if country == "" {
			country = "(none)"
		}
		c, ok := byCountry[country]
		if !ok {
			c = &CountryCoverage{Country: country}
			byCountry[country] = c
		}
		c.Total++
		report.Total++
		if records[i].HasState() {
			c.WithState++
			report.WithState++
		}
	}

	report.Countries = make([]CountryCoverage, 0, len(byCountry))
	for _, c := range byCountry {
		report.Countries = append(report.Countries, *c)
	}
	sort.Slice(report.Countries, func(i, j int) bool {
		a, b := report.Countries[i], report.Countries[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Country < b.Country
	})
	return report
}

// WriteCoverageXLSX writes the report to a single-sheet workbook: a header,
// one row per country, and a final total row.
func WriteCoverageXLSX(path string, report CoverageReport) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Coverage")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Country", "Universities", "With State", "Coverage"} {
		header.AddCell().SetString(h)
	}

	addRow := func(c CountryCoverage) {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Country)
		row.AddCell().SetInt(c.Total)
		row.AddCell().SetInt(c.WithState)
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", c.Percent()))
	}
	for _, c := range report.Countries {
		addRow(c)
	}
	addRow(report.CountryCoverage)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
