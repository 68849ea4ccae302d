package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart writes an HTML page with one line chart plotting each series
// against its index. Series are drawn in order of name.
func Chart(w io.Writer, title string, series map[string][]float64) error {
	if len(series) == 0 {
		return fmt.Errorf("chart: no series to plot")
	}

	names := make([]string, 0, len(series))
	numSteps := 0
	for name, data := range series {
		names = append(names, name)
		if len(data) > numSteps {
			numSteps = len(data)
		}
	}
	sort.Strings(names)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, 0, numSteps)
	for i := 0; i < numSteps; i++ {
		steps = append(steps, fmt.Sprintf("%d", i))
	}

	line = line.SetXAxis(steps)
	for _, name := range names {
		items := make([]opts.LineData, 0, len(series[name]))
		for _, v := range series[name] {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("chart: %v", err)
	}
	return nil
}
