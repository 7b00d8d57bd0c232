package service

import (
	"stroycalc/internal/account/models"
)

const (
	PlannedLabel = "Плановые затраты"
	ActualLabel  = "Фактические затраты"
)

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type BarChart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type PieChart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type BudgetChart struct {
	Bars BarChart `json:"bars"`
	Pie  PieChart `json:"pie"`
}

// BuildBudgetChart группирует позиции сметы: столбцы по категориям
// (план/факт), круговая диаграмма по типам расчета. Порядок подписей
// совпадает с порядком первого появления. Позиции без расчета пропускаются.
func BuildBudgetChart(b models.Budget) BudgetChart {
	var (
		categories []string
		planned    = map[string]float64{}
		actual     = map[string]float64{}
		types      []string
		byType     = map[string]float64{}
	)

	for _, it := range b.Items {
		if it.Calculation == nil {
			continue
		}
		cat := it.Calculation.Category
		if _, ok := planned[cat]; !ok {
			categories = append(categories, cat)
			planned[cat], actual[cat] = 0, 0
		}
		planned[cat] += value(it.PlannedCost)
		actual[cat] += value(it.ActualCost)

		t := it.Calculation.Type
		if _, ok := byType[t]; !ok {
			types = append(types, t)
		}
		// факт, а если он пустой или нулевой, то план
		cost := value(it.ActualCost)
		if cost == 0 {
			cost = value(it.PlannedCost)
		}
		byType[t] += cost
	}

	chart := BudgetChart{
		Bars: BarChart{
			Labels: []string{},
			Datasets: []Dataset{
				{Label: PlannedLabel, Data: []float64{}},
				{Label: ActualLabel, Data: []float64{}},
			},
		},
		Pie: PieChart{Labels: []string{}, Data: []float64{}},
	}
	for _, cat := range categories {
		chart.Bars.Labels = append(chart.Bars.Labels, cat)
		chart.Bars.Datasets[0].Data = append(chart.Bars.Datasets[0].Data, planned[cat])
		chart.Bars.Datasets[1].Data = append(chart.Bars.Datasets[1].Data, actual[cat])
	}
	for _, t := range types {
		chart.Pie.Labels = append(chart.Pie.Labels, t)
		chart.Pie.Data = append(chart.Pie.Data, byType[t])
	}
	return chart
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
