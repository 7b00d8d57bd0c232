package calculator

// ============================================================
// Catalog
// ============================================================

const (
	CategoryRepair       = "repair"
	CategoryConstruction = "construction"
)

// Field - поле формы расчета. Поле с Default необязательное.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Min     float64  `json:"min"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Default *float64 `json:"default,omitempty"`
}

type Definition struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`

	calc calcFunc
}

type Category struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Calculations map[string]Definition `json:"calculations"`
}

// TypeRef - пара категория/тип в порядке объявления каталога.
type TypeRef struct {
	Category string
	Type     string
}

func num(v float64) *float64 { return &v }

func field(name, label string, min float64, step *float64) Field {
	return Field{Name: name, Label: label, Type: "number", Min: min, Step: step}
}

func withDefault(f Field, def float64) Field {
	f.Default = num(def)
	return f
}

func withMax(f Field, max float64) Field {
	f.Max = num(max)
	return f
}

var order = []TypeRef{
	{CategoryRepair, "paint"},
	{CategoryRepair, "tiles"},
	{CategoryRepair, "wallpaper"},
	{CategoryRepair, "laminate"},
	{CategoryRepair, "plaster"},
	{CategoryConstruction, "foundation"},
	{CategoryConstruction, "bricks"},
	{CategoryConstruction, "roofing"},
	{CategoryConstruction, "insulation"},
}

var catalog = map[string]Category{
	CategoryRepair: {
		Name:        "Ремонт",
		Description: "Расчет материалов для ремонтных работ",
		Calculations: map[string]Definition{
			"paint": {
				Name:        "Покраска стен",
				Description: "Расчет количества краски для стен",
				Fields: []Field{
					field("length", "Длина комнаты (м)", 0.1, num(0.1)),
					field("width", "Ширина комнаты (м)", 0.1, num(0.1)),
					field("height", "Высота стен (м)", 0.1, num(0.1)),
					withDefault(field("coats", "Количество слоев", 1, nil), 2),
					withDefault(field("consumption", "Расход краски (кг/м²)", 0.01, num(0.01)), 0.15),
				},
				calc: paint,
			},
			"tiles": {
				Name:        "Укладка плитки",
				Description: "Расчет количества напольной плитки",
				Fields: []Field{
					field("length", "Длина пола (м)", 0.1, num(0.1)),
					field("width", "Ширина пола (м)", 0.1, num(0.1)),
					field("tile_width", "Ширина плитки (м)", 0.01, num(0.01)),
					field("tile_height", "Длина плитки (м)", 0.01, num(0.01)),
				},
				calc: tiles,
			},
			"wallpaper": {
				Name:        "Обои",
				Description: "Расчет количества рулонов обоев",
				Fields: []Field{
					field("length", "Длина комнаты (м)", 0.1, num(0.1)),
					field("width", "Ширина комнаты (м)", 0.1, num(0.1)),
					field("height", "Высота стен (м)", 0.1, num(0.1)),
					field("roll_width", "Ширина рулона (м)", 0.1, num(0.01)),
					field("roll_length", "Длина рулона (м)", 1, num(0.1)),
				},
				calc: wallpaper,
			},
			"laminate": {
				Name:        "Ламинат",
				Description: "Расчет количества упаковок ламината",
				Fields: []Field{
					field("length", "Длина комнаты (м)", 0.1, num(0.1)),
					field("width", "Ширина комнаты (м)", 0.1, num(0.1)),
					field("laminate_length", "Длина доски (м)", 0.1, num(0.01)),
					field("laminate_width", "Ширина доски (м)", 0.01, num(0.01)),
					field("pack_count", "Досок в упаковке", 1, nil),
				},
				calc: laminate,
			},
			"plaster": {
				Name:        "Штукатурка",
				Description: "Расчет количества штукатурки",
				Fields: []Field{
					field("length", "Длина комнаты (м)", 0.1, num(0.1)),
					field("width", "Ширина комнаты (м)", 0.1, num(0.1)),
					field("height", "Высота стен (м)", 0.1, num(0.1)),
					field("thickness", "Толщина слоя (м)", 0.001, num(0.001)),
					withDefault(field("density", "Плотность (кг/м³)", 1, nil), 1600),
				},
				calc: plaster,
			},
		},
	},
	CategoryConstruction: {
		Name:        "Строительство",
		Description: "Расчет материалов для строительных работ",
		Calculations: map[string]Definition{
			"foundation": {
				Name:        "Фундамент",
				Description: "Расчет бетона для фундамента",
				Fields: []Field{
					field("length", "Длина фундамента (м)", 0.1, num(0.1)),
					field("width", "Ширина фундамента (м)", 0.1, num(0.1)),
					field("depth", "Глубина фундамента (м)", 0.1, num(0.1)),
					withDefault(field("concrete_per_cubic", "Бетона на 1м³ (кг)", 1, nil), 2400),
				},
				calc: foundation,
			},
			"bricks": {
				Name:        "Кирпичная кладка",
				Description: "Расчет количества кирпичей",
				Fields: []Field{
					field("wall_length", "Длина стены (м)", 0.1, num(0.1)),
					field("wall_height", "Высота стены (м)", 0.1, num(0.1)),
					withDefault(field("brick_length", "Длина кирпича (м)", 0.01, num(0.01)), 0.25),
					withDefault(field("brick_height", "Высота кирпича (м)", 0.01, num(0.01)), 0.065),
					withDefault(field("wall_thickness", "Толщина стены (кирпичей)", 0.5, num(0.5)), 1),
				},
				calc: bricks,
			},
			"roofing": {
				Name:        "Кровельные материалы",
				Description: "Расчет материалов для крыши",
				Fields: []Field{
					field("roof_length", "Длина крыши (м)", 0.1, num(0.1)),
					field("roof_width", "Ширина крыши (м)", 0.1, num(0.1)),
					field("sheet_length", "Длина листа (м)", 0.1, num(0.1)),
					field("sheet_width", "Ширина листа (м)", 0.1, num(0.1)),
					withDefault(withMax(field("overlap", "Нахлест (%)", 0, nil), 50), 10),
				},
				calc: roofing,
			},
			"insulation": {
				Name:        "Утеплитель",
				Description: "Расчет утеплителя для стен",
				Fields: []Field{
					field("wall_length", "Длина стены (м)", 0.1, num(0.1)),
					field("wall_height", "Высота стены (м)", 0.1, num(0.1)),
					field("insulation_thickness", "Толщина утеплителя (м)", 0.01, num(0.01)),
					field("insulation_area_per_pack", "Площадь в упаковке (м²)", 0.1, num(0.1)),
				},
				calc: insulation,
			},
		},
	},
}

// Catalog возвращает каталог категорий и типов расчетов.
func Catalog() map[string]Category {
	return catalog
}

// Types перечисляет все типы в порядке каталога.
func Types() []TypeRef {
	return append([]TypeRef(nil), order...)
}

// Lookup находит описание типа.
func Lookup(category, calcType string) (Definition, bool) {
	cat, ok := catalog[category]
	if !ok {
		return Definition{}, false
	}
	def, ok := cat.Calculations[calcType]
	return def, ok
}

// CategoryOf возвращает категорию по типу; типы в каталоге не повторяются.
func CategoryOf(calcType string) (string, bool) {
	for _, ref := range order {
		if ref.Type == calcType {
			return ref.Category, true
		}
	}
	return "", false
}

// DisplayName - название типа для отчетов; неизвестный тип возвращается как есть.
func DisplayName(calcType string) string {
	cat, ok := CategoryOf(calcType)
	if !ok {
		return calcType
	}
	return catalog[cat].Calculations[calcType].Name
}
