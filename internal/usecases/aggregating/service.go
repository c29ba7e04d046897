package aggregating

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report/internal/domain"
)

const (
	fieldQuantity = "quantity"
	fieldPrice    = "price"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

type Aggregator interface {
	Aggregate(input domain.SalesData) *domain.AggregationResult
}

type Service struct{}

func NewService() Aggregator {
	return &Service{}
}

// Aggregate calcula a receita de cada produto, ordena por receita (decrescente,
// mantendo a ordem da entrada nos empates) e soma a receita total. Entradas
// inválidas são descartadas e listadas em Skipped; nunca retorna erro.
func (s *Service) Aggregate(input domain.SalesData) *domain.AggregationResult {
	entries := collapseDuplicates(input)

	result := &domain.AggregationResult{
		Records:      make([]domain.SaleRecord, 0, len(entries)),
		TotalRevenue: decimal.Zero,
		Skipped:      make([]domain.SkippedEntry, 0),
	}

	for _, entry := range entries {
		record, err := computeRecord(entry)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product": entry.Product,
			}).WithError(err).Warn("Entrada descartada no cálculo de receita")

			result.Skipped = append(result.Skipped, domain.SkippedEntry{
				Product: entry.Product,
				Err:     err,
			})
			continue
		}

		result.Records = append(result.Records, record)
		result.TotalRevenue = result.TotalRevenue.Add(record.Revenue)
	}

	sortByRevenue(result.Records)

	logrus.WithFields(logrus.Fields{
		"records":       len(result.Records),
		"skipped":       len(result.Skipped),
		"total_revenue": result.TotalRevenue.StringFixed(2),
	}).Debug("Agregação de vendas concluída")

	return result
}

// collapseDuplicates mantém a última entrada de cada produto na posição da primeira ocorrência
func collapseDuplicates(input domain.SalesData) domain.SalesData {
	positions := make(map[string]int, len(input))
	entries := make(domain.SalesData, 0, len(input))

	for _, entry := range input {
		if i, exists := positions[entry.Product]; exists {
			logrus.WithField("product", entry.Product).Debug("Produto duplicado na entrada, mantendo os últimos valores")
			entries[i] = entry
			continue
		}

		positions[entry.Product] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}

func computeRecord(entry domain.ProductEntry) (domain.SaleRecord, error) {
	if entry.Malformed() {
		return domain.SaleRecord{}, newEntryError(entry.Product, "", ErrMalformedEntry)
	}

	quantity, err := parseQuantity(entry.Quantity)
	if err != nil {
		return domain.SaleRecord{}, newEntryError(entry.Product, fieldQuantity, err)
	}

	price, err := parsePrice(entry.Price)
	if err != nil {
		return domain.SaleRecord{}, newEntryError(entry.Product, fieldPrice, err)
	}

	return domain.NewSaleRecord(entry.Product, quantity, price), nil
}

func parseQuantity(value domain.Value) (int64, error) {
	d, err := value.Decimal()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %w", ErrInvalidQuantity, ErrNegativeValue)
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a whole number", ErrInvalidQuantity, d.String())
	}

	if d.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidQuantity, d.String())
	}

	return d.IntPart(), nil
}

func parsePrice(value domain.Value) (decimal.Decimal, error) {
	d, err := value.Decimal()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidPrice, err)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidPrice, ErrNegativeValue)
	}

	return d, nil
}

func sortByRevenue(records []domain.SaleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Revenue.GreaterThan(records[j].Revenue)
	})
}
