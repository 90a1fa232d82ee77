package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fieldlab/internal/storage"
)

// SeriesColumn selects one column of a run series for plotting.
type SeriesColumn string

const (
	ColRhoMax    SeriesColumn = "rho_max"
	ColRhoRMS    SeriesColumn = "rho_rms"
	ColExcitRMS  SeriesColumn = "excit_rms"
	ColRegRMS    SeriesColumn = "reg_rms"
	ColTotalMass SeriesColumn = "total_mass"
)

func columnValues(series []storage.Sample, col SeriesColumn) []float64 {
	vals := make([]float64, len(series))
	for i, s := range series {
		switch col {
		case ColRhoMax:
			vals[i] = s.RhoMax
		case ColRhoRMS:
			vals[i] = s.RhoRMS
		case ColExcitRMS:
			vals[i] = s.ExcitRMS
		case ColRegRMS:
			vals[i] = s.RegRMS
		case ColTotalMass:
			vals[i] = s.TotalMass
		}
	}
	return vals
}

// Trace plots one series column as an ASCII line chart.
func Trace(series []storage.Sample, col SeriesColumn, width, height int) string {
	if len(series) < 2 {
		return "(not enough samples)"
	}
	vals := columnValues(series, col)
	return asciigraph.Plot(vals,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(string(col)),
	)
}

// TraceAll stacks the standard diagnostic charts for a run.
func TraceAll(series []storage.Sample, width, height int) string {
	cols := []SeriesColumn{ColRhoMax, ColExcitRMS, ColRegRMS, ColTotalMass}
	charts := make([]string, 0, len(cols))
	for _, col := range cols {
		charts = append(charts, Trace(series, col, width, height))
	}
	return strings.Join(charts, "\n\n")
}
