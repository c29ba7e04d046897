// Package xlsxrenderer gera o relatório de vendas em planilha XLSX
package xlsxrenderer

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/sales-report/infrastructure/renderer"
	"github.com/vfg2006/sales-report/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	Name          = "xlsx"
	SheetName     = "Sales Data"
	defaultSheet  = "Sheet1"
	headerRow     = 3
	firstDataRow  = 4
	titleFontSize = 16
)

var errDisabled = errors.New("spreadsheet export disabled by configuration")

type Options struct {
	OutputFilename string
	Title          string
	Enabled        bool
}

type Renderer struct {
	fs      afero.Fs
	options Options
	// unavailable guarda o motivo da indisponibilidade, verificado uma única vez na construção
	unavailable error
}

func New(fs afero.Fs, options Options) *Renderer {
	if options.Title == "" {
		options.Title = report.DefaultTitle
	}

	r := &Renderer{
		fs:          fs,
		options:     options,
		unavailable: checkCapability(options),
	}

	if r.unavailable != nil {
		logrus.WithFields(logrus.Fields{
			"renderer":    Name,
			"destination": options.OutputFilename,
		}).WithError(r.unavailable).Warn("Renderizador de planilha indisponível")
	}

	return r
}

// checkCapability verifica se a exportação está habilitada e se o motor de
// planilhas consegue criar uma pasta de trabalho com estilos
func checkCapability(options Options) error {
	if !options.Enabled {
		return errDisabled
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return errors.Wrap(err, "workbook engine cannot create styles")
	}

	return nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) Title() string {
	return r.options.Title
}

func (r *Renderer) Destination() string {
	return r.options.OutputFilename
}

// Available retorna nil quando o renderizador pode gerar planilhas
func (r *Renderer) Available() error {
	return r.unavailable
}

// Render monta a planilha em memória e grava no destino. Quando o
// renderizador está indisponível nenhum arquivo é criado.
func (r *Renderer) Render(doc report.Document) error {
	if r.unavailable != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrRendererUnavailable, r.unavailable)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar planilha")
		}
	}()

	if err := buildWorkbook(f, doc); err != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrBuildDocument, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrBuildDocument, err)
	}

	if err := renderer.WriteFile(r.fs, r.Destination(), buf.Bytes()); err != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrWriteDestination, err)
	}

	return nil
}

// buildWorkbook escreve título mesclado em A1:D1, linha 2 vazia, cabeçalho na
// linha 3, os dados e a linha de total
func buildWorkbook(f *excelize.File, doc report.Document) error {
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	lastColumn, err := excelize.ColumnNumberToName(len(doc.Header))
	if err != nil {
		return errors.Wrap(err, "resolving last column")
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: titleFontSize},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating title style")
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	titleEnd := lastColumn + "1"
	if err := f.MergeCell(SheetName, "A1", titleEnd); err != nil {
		return errors.Wrap(err, "merging title cells")
	}

	if err := f.SetCellValue(SheetName, "A1", doc.Title); err != nil {
		return errors.Wrap(err, "writing title")
	}

	if err := f.SetCellStyle(SheetName, "A1", titleEnd, titleStyle); err != nil {
		return errors.Wrap(err, "styling title")
	}

	if err := writeRow(f, headerRow, toCells(doc.Header)); err != nil {
		return errors.Wrap(err, "writing header")
	}

	row := firstDataRow
	for _, dataRow := range doc.Rows {
		cells := []interface{}{dataRow.Product, dataRow.Quantity, dataRow.Price, dataRow.Revenue}
		if err := writeRow(f, row, cells); err != nil {
			return errors.Wrapf(err, "writing row for %s", dataRow.Product)
		}
		row++
	}

	if err := writeRow(f, row, toCells(doc.Summary)); err != nil {
		return errors.Wrap(err, "writing summary")
	}

	for _, boldRow := range []int{headerRow, row} {
		start, _ := excelize.CoordinatesToCellName(1, boldRow)
		end, _ := excelize.CoordinatesToCellName(len(doc.Header), boldRow)
		if err := f.SetCellStyle(SheetName, start, end, boldStyle); err != nil {
			return errors.Wrapf(err, "styling row %d", boldRow)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 24); err != nil {
		return errors.Wrap(err, "setting column width")
	}

	if err := f.SetColWidth(SheetName, "B", lastColumn, 14); err != nil {
		return errors.Wrap(err, "setting column width")
	}

	return nil
}

func writeRow(f *excelize.File, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, 0, len(values))
	for _, value := range values {
		cells = append(cells, value)
	}
	return cells
}
