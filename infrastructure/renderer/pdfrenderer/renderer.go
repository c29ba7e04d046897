// Package pdfrenderer gera o relatório de vendas em PDF
package pdfrenderer

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/sales-report/infrastructure/renderer"
	"github.com/vfg2006/sales-report/internal/report"
)

const Name = "pdf"

// Medidas em pontos, página Letter
const (
	pageMargin     = 50.0
	logoCellWidth  = 110.0
	logoWidth      = 100.0
	logoHeight     = 50.0
	titleCellWidth = 400.0
	headerSpacer   = 24.0
	rowHeight      = 18.0
	headerHeight   = 24.0
	cellPadding    = 4.0
	maxCellLines   = 4
)

type rgb struct{ r, g, b int }

var (
	gray       = rgb{128, 128, 128}
	whitesmoke = rgb{245, 245, 245}
	beige      = rgb{245, 245, 220}
	black      = rgb{0, 0, 0}
)

type Options struct {
	OutputFilename string
	Title          string
	LogoPath       string // Opcional
}

type Renderer struct {
	fs      afero.Fs
	options Options
}

func New(fs afero.Fs, options Options) *Renderer {
	if options.Title == "" {
		options.Title = report.DefaultTitle
	}

	return &Renderer{
		fs:      fs,
		options: options,
	}
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

// Render monta o PDF em memória e grava no destino. Falhas no logo não
// interrompem a renderização.
func (r *Renderer) Render(doc report.Document) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.writeHeader(pdf, tr, doc.Title)
	pdf.Ln(headerSpacer)
	writeTable(pdf, tr, doc)

	if pdf.Err() {
		return report.NewRenderError(Name, r.Destination(), report.ErrBuildDocument, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrBuildDocument, err)
	}

	if err := renderer.WriteFile(r.fs, r.Destination(), buf.Bytes()); err != nil {
		return report.NewRenderError(Name, r.Destination(), report.ErrWriteDestination, err)
	}

	return nil
}

// writeHeader escreve a linha com o logo (ou célula vazia) e o título
func (r *Renderer) writeHeader(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	x, y := pdf.GetXY()

	if logo, ok := r.registerLogo(pdf); ok {
		pdf.ImageOptions(logo.name, x, y, logoWidth, logoHeight, false, logo.options, 0, "")
	}

	pdf.SetXY(x+logoCellWidth, y)
	pdf.SetFont("Helvetica", "B", 18)
	setTextColor(pdf, black)
	pdf.CellFormat(titleCellWidth, logoHeight, tr(title), "", 1, "CM", false, 0, "")
}

type registeredLogo struct {
	name    string
	options fpdf.ImageOptions
}

// registerLogo carrega o logo se o caminho estiver configurado e o arquivo
// existir. Qualquer falha resulta em célula vazia.
func (r *Renderer) registerLogo(pdf *fpdf.Fpdf) (registeredLogo, bool) {
	path := r.options.LogoPath
	if path == "" {
		return registeredLogo{}, false
	}

	logger := logrus.WithFields(logrus.Fields{
		"renderer": Name,
		"logo":     path,
	})

	exists, err := afero.Exists(r.fs, path)
	if err != nil || !exists {
		logger.Debug("Logo não encontrado, usando célula vazia")
		return registeredLogo{}, false
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		logger.WithError(err).Warn("Erro ao carregar logo")
		return registeredLogo{}, false
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.WithError(errors.Wrap(err, "decoding logo")).Warn("Erro ao carregar logo")
		return registeredLogo{}, false
	}

	logo := registeredLogo{
		name:    path,
		options: fpdf.ImageOptions{ImageType: format},
	}

	pdf.RegisterImageOptionsReader(logo.name, logo.options, bytes.NewReader(data))
	if pdf.Err() {
		logger.WithError(pdf.Error()).Warn("Erro ao carregar logo")
		pdf.ClearError()
		return registeredLogo{}, false
	}

	return logo, true
}

func setFillColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func setTextColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setDrawColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(c.r, c.g, c.b)
}
