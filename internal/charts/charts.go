// Package charts рендерит графики для детальной статистики.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
)

// Generator создаёт PNG-изображения по данным отчёта.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryBars строит столбчатую диаграмму расходов по категориям для
// одного окна. Без расходов возвращает nil без ошибки.
func (g *Generator) CategoryBars(w service.Window) ([]byte, error) {
	if len(w.Expenses) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(w.Expenses))
	for _, c := range w.Expenses {
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: c.Sum.InexactFloat64(),
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Расходы за %s", w.Title),
		Width:    900,
		Height:   500,
		BarWidth: 70,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 30, Right: 30, Bottom: 30},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{
			FontSize:  11,
			FontColor: chart.ColorBlack,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return fmt.Sprintf("%.0f", f)
			},
			Style: chart.Style{
				FontSize:  11,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category bars: %w", err)
	}
	return buf.Bytes(), nil
}
