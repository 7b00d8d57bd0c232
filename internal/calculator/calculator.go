package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"stroycalc/internal/visualizer/models"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownType     = errors.New("unknown calculation type")
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidParam    = errors.New("invalid parameter")
)

type calcFunc func(p map[string]float64) models.Result

// Calculate проверяет параметры по каталогу, подставляет значения по умолчанию
// и считает материалы. Возвращает результат и итоговый набор параметров,
// который сохраняется вместе с расчетом.
func Calculate(category, calcType string, params map[string]float64) (models.Result, map[string]float64, error) {
	cat, ok := catalog[category]
	if !ok {
		return models.Result{}, nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	def, ok := cat.Calculations[calcType]
	if !ok {
		return models.Result{}, nil, fmt.Errorf("%w for category %s: %s", ErrUnknownType, category, calcType)
	}

	filled, err := fill(def.Fields, params)
	if err != nil {
		return models.Result{}, nil, err
	}
	result := def.calc(filled)
	if err := checkFinite(result); err != nil {
		return models.Result{}, nil, err
	}
	return result, filled, nil
}

// checkFinite отсекает переполнение: огромные, но конечные параметры
// дают +Inf в площадях и количествах.
func checkFinite(r models.Result) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	for _, m := range r.Materials {
		if !finite(m.Quantity) {
			return fmt.Errorf("%w: %s is out of range", ErrInvalidParam, m.Name)
		}
	}
	if r.TotalArea != nil && !finite(*r.TotalArea) {
		return fmt.Errorf("%w: total area is out of range", ErrInvalidParam)
	}
	return nil
}

func fill(fields []Field, params map[string]float64) (map[string]float64, error) {
	filled := make(map[string]float64, len(fields))
	var missing []string
	var invalid []error

	for _, f := range fields {
		v, ok := params[f.Name]
		if !ok {
			if f.Default == nil {
				missing = append(missing, f.Name)
				continue
			}
			v = *f.Default
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < f.Min || (f.Max != nil && v > *f.Max) {
			invalid = append(invalid, fmt.Errorf("%w: %s=%v out of range", ErrInvalidParam, f.Name, v))
			continue
		}
		filled[f.Name] = v
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return nil, errors.Join(invalid...)
	}
	return filled, nil
}

// ============================================================
// Formulas
// ============================================================

func paint(p map[string]float64) models.Result {
	wallArea := 2 * (p["length"] + p["width"]) * p["height"]
	kg := wallArea * p["coats"] * p["consumption"]
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Краска", Quantity: round2(kg), Unit: "кг"}},
		TotalArea: area(wallArea),
		Details:   fmt.Sprintf("Площадь стен: %s м²", fmtNum(round2(wallArea))),
	}
}

func tiles(p map[string]float64) models.Result {
	floorArea := p["length"] * p["width"]
	tileArea := p["tile_width"] * p["tile_height"]
	count := ceil(floorArea / tileArea * 1.1)
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Плитка", Quantity: count, Unit: "шт"}},
		TotalArea: area(floorArea),
		Details: fmt.Sprintf("Площадь пола: %s м²\nРазмер плитки: %sx%s м",
			fmtNum(round2(floorArea)), fmtNum(p["tile_width"]), fmtNum(p["tile_height"])),
	}
}

func wallpaper(p map[string]float64) models.Result {
	perimeter := 2 * (p["length"] + p["width"])
	strips := perimeter / p["roll_width"]
	rolls := ceil(strips * p["height"] / p["roll_length"] * 1.15)
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Обои", Quantity: rolls, Unit: "рулонов"}},
		TotalArea: area(perimeter * p["height"]),
		Details: fmt.Sprintf("Периметр комнаты: %s м\nВысота стен: %s м",
			fmtNum(round2(perimeter)), fmtNum(p["height"])),
	}
}

func laminate(p map[string]float64) models.Result {
	roomArea := p["length"] * p["width"]
	boardArea := p["laminate_length"] * p["laminate_width"]
	packs := ceil(roomArea / boardArea * 1.1 / p["pack_count"])
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Ламинат", Quantity: packs, Unit: "упаковок"}},
		TotalArea: area(roomArea),
		Details: fmt.Sprintf("Площадь комнаты: %s м²\nДосок в упаковке: %s",
			fmtNum(round2(roomArea)), fmtNum(p["pack_count"])),
	}
}

func plaster(p map[string]float64) models.Result {
	wallArea := 2 * (p["length"] + p["width"]) * p["height"]
	kg := wallArea * p["thickness"] * p["density"]
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Штукатурка", Quantity: round2(kg), Unit: "кг"}},
		TotalArea: area(wallArea),
		Details: fmt.Sprintf("Площадь стен: %s м²\nТолщина слоя: %s м",
			fmtNum(round2(wallArea)), fmtNum(p["thickness"])),
	}
}

func foundation(p map[string]float64) models.Result {
	volume := p["length"] * p["width"] * p["depth"]
	return models.Result{
		Materials: []models.MaterialAmount{
			{Name: "Бетон", Quantity: round2(volume * p["concrete_per_cubic"]), Unit: "кг"},
			{Name: "Объем работ", Quantity: round2(volume), Unit: "м³"},
		},
		Details: fmt.Sprintf("Объем фундамента: %s м³", fmtNum(math.Round(volume*1000)/1000)),
	}
}

func bricks(p map[string]float64) models.Result {
	perSquareMeter := 1 / (p["brick_length"] * p["brick_height"])
	count := ceil(p["wall_length"] * p["wall_height"] * perSquareMeter * p["wall_thickness"] * 1.1)
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Кирпичи", Quantity: count, Unit: "шт"}},
		Details: fmt.Sprintf("Размер кирпича: %sx%s м\nТолщина стены: %s кирпича",
			fmtNum(p["brick_length"]), fmtNum(p["brick_height"]), fmtNum(p["wall_thickness"])),
	}
}

func roofing(p map[string]float64) models.Result {
	roofArea := p["roof_length"] * p["roof_width"]
	sheetArea := p["sheet_length"] * p["sheet_width"]
	sheets := ceil(roofArea / sheetArea * (1 + p["overlap"]/100))
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Кровельные листы", Quantity: sheets, Unit: "шт"}},
		TotalArea: area(roofArea),
		Details: fmt.Sprintf("Площадь крыши: %s м²\nНахлест: %s%%",
			fmtNum(round2(roofArea)), fmtNum(p["overlap"])),
	}
}

func insulation(p map[string]float64) models.Result {
	wallArea := p["wall_length"] * p["wall_height"]
	packs := ceil(wallArea / p["insulation_area_per_pack"])
	return models.Result{
		Materials: []models.MaterialAmount{{Name: "Утеплитель", Quantity: packs, Unit: "упаковок"}},
		TotalArea: area(wallArea),
		Details:   fmt.Sprintf("Площадь утепления: %s м²", fmtNum(round2(wallArea))),
	}
}

// ============================================================
// Helpers
// ============================================================

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ceil с допуском: 10.000000000000002 штук это 10, а не 11.
func ceil(v float64) float64 {
	return math.Ceil(v - 1e-9)
}

func area(v float64) *float64 {
	r := round2(v)
	return &r
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
