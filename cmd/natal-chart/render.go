package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/zodiac"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

// table renders static rows with columns sized to their widest cell
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	// Width includes the padding
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(t.title) + "\n")
	writeRow := func(style lipgloss.Style, cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(mutedStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headerStyle, t.headers)
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)) + "\n")
	for _, row := range t.rows {
		writeRow(cellStyle, row)
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderChart(v chart.View) string {
	var sb strings.Builder

	b := v.BirthMoment
	sb.WriteString(titleStyle.Render("Natal chart "+v.ID) + "\n")
	fmt.Fprintf(&sb, "  Born (UT):   %04d-%02d-%02d %02d:%02d at %.4f, %.4f\n",
		b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Latitude, b.Longitude)
	fmt.Fprintf(&sb, "  Julian Day:  %.5f\n", v.JulianDay)
	fmt.Fprintf(&sb, "  Precision:   %s\n", v.PrecisionMode)
	if v.HouseSystem != "" {
		fmt.Fprintf(&sb, "  Houses:      %s\n", v.HouseSystem)
	}
	fmt.Fprintf(&sb, "  Status:      %s\n", v.Status)
	if v.FallbackReason != "" {
		fmt.Fprintf(&sb, "  Fallback:    %s\n", v.FallbackReason)
	}
	sb.WriteString("\n")

	bodies := newTable("Bodies", "Body", "Sign", "Position", "House", "Longitude", "Speed")
	for _, s := range v.Bodies {
		if s.Error != "" {
			bodies.addRow(s.Name, errorStyle.Render(s.Error))
			continue
		}
		speed := strconv.FormatFloat(s.Speed, 'f', 4, 64)
		if s.Retrograde {
			speed += " R"
		}
		bodies.addRow(s.Name, s.Sign, s.Position, houseLabel(s.House), longitudeLabel(s.Longitude), speed)
	}
	sb.WriteString(bodies.render())

	angles := newTable("Angles", "Angle", "Sign", "Position", "Longitude")
	for _, s := range v.Angles {
		if s.Error != "" {
			angles.addRow(s.Name, errorStyle.Render(s.Error))
			continue
		}
		angles.addRow(s.Name, s.Sign, s.Position, longitudeLabel(s.Longitude))
	}
	sb.WriteString(angles.render())

	if len(v.Cusps) == 12 {
		cusps := newTable("House cusps", "House", "Cusp", "Sign", "Bodies")
		for i, cusp := range v.Cusps {
			p := zodiac.Classify(cusp)
			occupants := ""
			if i < len(v.Occupancy) {
				occupants = strconv.Itoa(v.Occupancy[i])
			}
			cusps.addRow(strconv.Itoa(i+1), strconv.FormatFloat(cusp, 'f', 2, 64), p.SignName()+" "+zodiac.FormatDegrees(p.DegreeInSign), occupants)
		}
		sb.WriteString(cusps.render())
		if v.HouseNote != "" {
			sb.WriteString(mutedStyle.Render(v.HouseNote) + "\n\n")
		}
	}

	if lp := v.LunarPhase; lp != nil {
		sb.WriteString(titleStyle.Render("Lunar phase") + "\n")
		fmt.Fprintf(&sb, "  %s, %.1f%% illuminated, %.1f days old (elongation %.1f°)\n\n",
			lp.PhaseName, lp.Illumination*100, lp.AgeDays, lp.Elongation)
	}

	if len(v.Warnings) > 0 {
		sb.WriteString(titleStyle.Render("Warnings") + "\n")
		for _, w := range v.Warnings {
			sb.WriteString("  " + w + "\n")
		}
	}

	return sb.String()
}

func houseLabel(h int) string {
	if h == 0 {
		return "-"
	}
	return strconv.Itoa(h)
}

func longitudeLabel(lon *float64) string {
	if lon == nil {
		return "-"
	}
	return strconv.FormatFloat(*lon, 'f', 2, 64)
}
