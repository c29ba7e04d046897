// Package report contém o modelo de conteúdo compartilhado pelos renderizadores do relatório de vendas
package report

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-report/internal/domain"
)

const (
	DefaultTitle      = "Sales Report 2024"
	TotalRevenueLabel = "Total Revenue:"
)

// Header é a linha de cabeçalho da tabela
var Header = []string{"Product", "Quantity", "Price ($)", "Revenue ($)"}

// Row é uma linha de dados já formatada. Quantity segue como inteiro para
// formatos que aceitam números.
type Row struct {
	Product  string
	Quantity int64
	Price    string
	Revenue  string
}

func (r Row) Cells() []string {
	return []string{r.Product, strconv.FormatInt(r.Quantity, 10), r.Price, r.Revenue}
}

// Document é a representação intermediária consumida pelos renderizadores
type Document struct {
	Title   string
	Header  []string
	Rows    []Row
	Summary []string
}

// NewDocument monta o conteúdo do relatório a partir do resultado da agregação
func NewDocument(title string, result *domain.AggregationResult) Document {
	if title == "" {
		title = DefaultTitle
	}

	total := decimal.Zero
	var records []domain.SaleRecord
	if result != nil {
		total = result.TotalRevenue
		records = result.Records
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, Row{
			Product:  record.Product,
			Quantity: record.Quantity,
			Price:    FormatAmount(record.Price),
			Revenue:  FormatAmount(record.Revenue),
		})
	}

	header := make([]string, len(Header))
	copy(header, Header)

	return Document{
		Title:   title,
		Header:  header,
		Rows:    rows,
		Summary: []string{TotalRevenueLabel, "", "", FormatAmount(total)},
	}
}

// FormatAmount formata um valor monetário com exatamente duas casas decimais
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
