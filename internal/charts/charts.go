package charts

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/ulafin/finbot/internal/repository"
)

// ChartGenerator рисует диаграммы для месячных отчётов
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateCategoryPieChart создает круговую диаграмму расходов по категориям.
// Возвращает nil без ошибки, если рисовать нечего.
func (g *ChartGenerator) GenerateCategoryPieChart(summary *repository.MonthlySummary, labels map[string]string) ([]byte, error) {
	if len(summary.ExpenseByCategory) == 0 || summary.TotalExpense.Sign() <= 0 {
		return nil, nil
	}

	hundred := decimal.NewFromInt(100)
	values := make([]chart.Value, 0, len(summary.ExpenseByCategory))
	for categoryID, amount := range summary.ExpenseByCategory {
		percentage := amount.Div(summary.TotalExpense).Mul(hundred)
		// категории с долей меньше процента сливаются в шум на диаграмме
		if percentage.LessThan(decimal.NewFromInt(1)) {
			continue
		}
		label := labels[categoryID]
		if label == "" {
			label = "Другое"
		}
		value, _ := amount.Float64()
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s%%)", label, percentage.Round(1)),
			Value: value,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  "Расходы по категориям",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateBalanceChart создает столбчатую диаграмму доходов, расходов и баланса за месяц.
func (g *ChartGenerator) GenerateBalanceChart(summary *repository.MonthlySummary) ([]byte, error) {
	if summary.TotalExpense.Sign() <= 0 && summary.TotalIncome.Sign() <= 0 {
		return nil, nil
	}

	expense, _ := summary.TotalExpense.Float64()
	income, _ := summary.TotalIncome.Float64()
	balance, _ := summary.Balance().Float64()

	bars := []chart.Value{
		{
			Label: "Доходы",
			Value: income,
			Style: chart.Style{
				StrokeColor: chart.ColorGreen,
				FillColor:   chart.ColorGreen,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: "Расходы",
			Value: expense,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: "Баланс",
			Value: balance,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
	}

	graph := chart.BarChart{
		Title: "Итоги месяца",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   600,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render balance chart: %w", err)
	}
	return buffer.Bytes(), nil
}
