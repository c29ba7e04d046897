package pdfrenderer

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/vfg2006/sales-report/internal/report"
)

// Larguras mínimas das colunas Product, Quantity, Price e Revenue
var minColumnWidths = []float64{170, 80, 100, 110}

type rowStyle struct {
	fontStyle  string
	fontSize   float64
	lineHeight float64
	fill       *rgb
	text       rgb
}

var (
	headerStyle  = rowStyle{fontStyle: "B", fontSize: 11, lineHeight: headerHeight, fill: &gray, text: whitesmoke}
	bodyStyle    = rowStyle{fontSize: 10, lineHeight: rowHeight, fill: &beige, text: black}
	summaryStyle = rowStyle{fontStyle: "B", fontSize: 10, lineHeight: rowHeight, text: black}
)

func (s rowStyle) apply(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", s.fontStyle, s.fontSize)
	setTextColor(pdf, s.text)
	if s.fill != nil {
		setFillColor(pdf, *s.fill)
	}
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, doc report.Document) {
	setDrawColor(pdf, black)
	pdf.SetLineWidth(1)

	widths := columnWidths(pdf, tr, doc)

	writeRow(pdf, tr, widths, doc.Header, headerStyle)
	for _, row := range doc.Rows {
		writeRow(pdf, tr, widths, row.Cells(), bodyStyle)
	}
	writeRow(pdf, tr, widths, doc.Summary, summaryStyle)
}

// columnWidths mede o conteúdo de cada coluna. Se a tabela não couber entre as
// margens, a coluna de produto cede espaço primeiro e as demais encolhem em
// proporção só quando isso não basta.
func columnWidths(pdf *fpdf.Fpdf, tr func(string) string, doc report.Document) []float64 {
	widths := make([]float64, len(minColumnWidths))
	copy(widths, minColumnWidths)

	measure := func(style rowStyle, cells []string) {
		style.apply(pdf)
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if w := pdf.GetStringWidth(tr(cell)) + 2*cellPadding; w > widths[i] {
				widths[i] = w
			}
		}
	}

	measure(headerStyle, doc.Header)
	for _, row := range doc.Rows {
		measure(bodyStyle, row.Cells())
	}
	measure(summaryStyle, doc.Summary)

	pageWidth, _ := pdf.GetPageSize()
	available := pageWidth - 2*pageMargin

	total := 0.0
	for _, w := range widths {
		total += w
	}
	if total <= available {
		return widths
	}

	if product := available - (total - widths[0]); product >= minColumnWidths[0] {
		widths[0] = product
		return widths
	}

	scale := available / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}

// writeRow desenha uma linha da tabela. Textos que não cabem na coluna quebram
// em até maxCellLines linhas e a altura da linha acompanha a célula mais alta.
func writeRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string, style rowStyle) {
	style.apply(pdf)

	lines := make([][]string, len(cells))
	count := 1
	for i, cell := range cells {
		lines[i] = wrapText(pdf, tr(cell), widths[i]-2*cellPadding)
		count = max(count, len(lines[i]))
	}
	height := style.lineHeight * float64(count)

	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+height > pageHeight-pageMargin {
		pdf.AddPage()
		style.apply(pdf)
	}

	left, top := pdf.GetXY()
	x := left
	for i, cellLines := range lines {
		drawStyle := "D"
		if style.fill != nil {
			drawStyle = "FD"
		}
		pdf.Rect(x, top, widths[i], height, drawStyle)

		offset := (height - style.lineHeight*float64(len(cellLines))) / 2
		for j, line := range cellLines {
			pdf.SetXY(x, top+offset+style.lineHeight*float64(j))
			pdf.CellFormat(widths[i], style.lineHeight, line, "", 0, cellAlign(i), false, 0, "")
		}
		x += widths[i]
	}

	pdf.SetXY(left, top+height)
}

// cellAlign alinha a primeira coluna à esquerda e centraliza as numéricas
func cellAlign(column int) string {
	if column == 0 {
		return "LM"
	}
	return "CM"
}

// wrapText quebra o texto já traduzido para cp1252 em linhas que cabem na
// largura com a fonte atual. Palavras maiores que a coluna são partidas por
// caractere. Acima de maxCellLines, a última linha termina em reticências.
func wrapText(pdf *fpdf.Fpdf, text string, width float64) []string {
	if pdf.GetStringWidth(text) <= width {
		return []string{text}
	}

	space := pdf.GetStringWidth(" ")

	var (
		lines     []string
		line      strings.Builder
		lineWidth float64
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(text) {
		if len(lines) > maxCellLines {
			break
		}

		wordWidth := pdf.GetStringWidth(word)
		if line.Len() > 0 && lineWidth+space+wordWidth <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += space + wordWidth
			continue
		}
		if line.Len() > 0 {
			flush()
		}

		for i := 0; i < len(word) && len(lines) <= maxCellLines; i++ {
			charWidth := pdf.GetStringWidth(word[i : i+1])
			if line.Len() > 0 && lineWidth+charWidth > width {
				flush()
			}
			line.WriteByte(word[i])
			lineWidth += charWidth
		}
	}
	if line.Len() > 0 {
		flush()
	}

	if len(lines) > maxCellLines {
		lines = lines[:maxCellLines]
		lines[maxCellLines-1] = ellipsize(pdf, lines[maxCellLines-1], width)
	}
	return lines
}

func ellipsize(pdf *fpdf.Fpdf, line string, width float64) string {
	const ellipsis = "..."
	for line != "" && pdf.GetStringWidth(line+ellipsis) > width {
		line = line[:len(line)-1]
	}
	return line + ellipsis
}
