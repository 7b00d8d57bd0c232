package mapper

import (
	"errors"
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"stroycalc/internal/visualizer/models"
)

// ============================================================
// Renderer
// ============================================================

type View string

const (
	// ViewFront - фасад: X вправо, Y вверх, глубина по Z.
	ViewFront View = "front"
	// ViewPlan - план: X вправо, Z вниз, глубина по Y.
	ViewPlan View = "plan"
)

var ErrUnknownView = errors.New("unknown view")

const (
	defaultScale  = 100.0
	defaultMargin = 20.0
)

// Цвет заливки по текстуре, если у материала нет цвета.
var textureFill = map[string]string{
	"concrete": "#a9a9a9",
	"wood":     "#c19a6b",
	"brick":    "#b5523b",
	"tile":     "#ffffff",
	"roof":     "#8b0000",
}

type Renderer struct {
	// Scale - пикселей на метр.
	Scale  float64
	Margin float64
}

func NewRenderer() *Renderer {
	return &Renderer{Scale: defaultScale, Margin: defaultMargin}
}

type rect struct {
	group        string
	minU, minV   float64
	maxU, maxV   float64
	depth        float64
	fill, stroke string
	opacity      float64
}

// Render проецирует раскладку в SVG. Декоративные примитивы (небо, облака)
// не рисуются, потолок на плане пропускается; раскладка без примитивов дает SVG с текстом заглушки.
func (r *Renderer) Render(layout models.Layout, view View) (string, error) {
	if view == "" {
		view = ViewFront
	}
	if view != ViewFront && view != ViewPlan {
		return "", fmt.Errorf("%w: %s", ErrUnknownView, view)
	}

	var rects []rect
	for _, p := range layout.Primitives {
		if p.Shape != models.ShapeBox && p.Shape != models.ShapePlane {
			continue
		}
		// потолок на плане закрыл бы пол
		if view == ViewPlan && p.Group == models.GroupCeiling {
			continue
		}
		rects = append(rects, r.project(p, view))
	}

	if len(rects) == 0 {
		return r.placeholder(layout), nil
	}

	// дальние элементы рисуются первыми
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].depth < rects[j].depth })

	minU, minV := math.MaxFloat64, math.MaxFloat64
	maxU, maxV := -math.MaxFloat64, -math.MaxFloat64
	for _, rc := range rects {
		minU = math.Min(minU, rc.minU)
		minV = math.Min(minV, rc.minV)
		maxU = math.Max(maxU, rc.maxU)
		maxV = math.Max(maxV, rc.maxV)
	}

	width := (maxU-minU)*r.Scale + 2*r.Margin
	height := (maxV-minV)*r.Scale + 2*r.Margin

	var elements []string
	for i, rc := range rects {
		x := (rc.minU-minU)*r.Scale + r.Margin
		w := (rc.maxU - rc.minU) * r.Scale
		h := (rc.maxV - rc.minV) * r.Scale
		var y float64
		if view == ViewFront {
			// SVG растет вниз, Y сцены вверх
			y = (maxV-rc.maxV)*r.Scale + r.Margin
		} else {
			y = (rc.minV-minV)*r.Scale + r.Margin
		}
		elem := fmt.Sprintf(`<rect id="%s-%d" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"`,
			rc.group, i, formatFloat(x), formatFloat(y), formatFloat(w), formatFloat(h), rc.fill, rc.stroke)
		if rc.opacity > 0 && rc.opacity < 1 {
			elem += fmt.Sprintf(` fill-opacity="%s"`, formatFloat(rc.opacity))
		}
		elements = append(elements, elem+" />")
	}

	return document(width, height, elements), nil
}

// ============================================================
// Projection
// ============================================================

func (r *Renderer) project(p models.Primitive, view View) rect {
	// порядок Эйлера XYZ, как у three.js: R = Rx·Ry·Rz
	rot := mgl64.Rotate3DX(p.Rotation.X()).Mul3(mgl64.Rotate3DY(p.Rotation.Y())).Mul3(mgl64.Rotate3DZ(p.Rotation.Z()))
	half := p.Size.Mul(0.5)

	rc := rect{
		group:   p.Group,
		minU:    math.MaxFloat64,
		minV:    math.MaxFloat64,
		maxU:    -math.MaxFloat64,
		maxV:    -math.MaxFloat64,
		fill:    fillColor(p.Material),
		stroke:  "#333",
		opacity: p.Material.Opacity,
	}

	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corner := rot.Mul3x1(mgl64.Vec3{sx * half.X(), sy * half.Y(), sz * half.Z()}).Add(p.Position)
				u, v := corner.X(), corner.Y()
				if view == ViewPlan {
					v = corner.Z()
				}
				rc.minU = math.Min(rc.minU, u)
				rc.maxU = math.Max(rc.maxU, u)
				rc.minV = math.Min(rc.minV, v)
				rc.maxV = math.Max(rc.maxV, v)
			}
		}
	}

	if view == ViewPlan {
		rc.depth = p.Position.Y()
	} else {
		rc.depth = p.Position.Z()
	}
	return rc
}

func fillColor(m models.Material) string {
	if m.Color != "" {
		return m.Color
	}
	if c, ok := textureFill[m.Texture]; ok {
		return c
	}
	return "none"
}

// ============================================================
// Document helpers
// ============================================================

func (r *Renderer) placeholder(layout models.Layout) string {
	text := layout.Placeholder
	if text == "" {
		text = string(layout.Type)
	}
	elem := fmt.Sprintf(`<text x="20" y="50" font-size="16">%s</text>`, html.EscapeString(text))
	return document(600, 100, []string{elem})
}

func document(width, height float64, elements []string) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*1000)/1000, 'f', -1, 64)
}
