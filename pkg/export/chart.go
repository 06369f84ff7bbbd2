package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cryptonique0/cecd/core/model"
)

// WriteReadinessChart renders readiness scores per region as an HTML bar
// chart, with average response minutes as a second series.
func WriteReadinessChart(w io.Writer, records []model.ReadinessRecord) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Regional readiness"}),
		charts.WithTitleOpts(opts.Title{Title: "Regional readiness", Subtitle: "score in [0,1]"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Region"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	regions := make([]string, 0, len(records))
	scores := make([]opts.BarData, 0, len(records))
	closure := make([]opts.BarData, 0, len(records))
	for _, r := range records {
		regions = append(regions, r.Region)
		scores = append(scores, opts.BarData{Value: r.Score})
		closure = append(closure, opts.BarData{Value: r.ClosureRate})
	}
	bar.SetXAxis(regions).
		AddSeries("Readiness", scores).
		AddSeries("Closure rate", closure)
	return bar.Render(w)
}
