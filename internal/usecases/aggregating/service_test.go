package aggregating

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report/internal/domain"
	"gopkg.in/yaml.v3"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func products(records []domain.SaleRecord) []string {
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Product)
	}
	return names
}

func skippedProducts(skipped []domain.SkippedEntry) []string {
	names := make([]string, 0, len(skipped))
	for _, entry := range skipped {
		names = append(names, entry.Product)
	}
	return names
}

func TestService_Aggregate(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		input    domain.SalesData
		validate func(t *testing.T, result *domain.AggregationResult)
	}{
		{
			name: "Ordena por receita decrescente e soma o total",
			input: domain.SalesData{
				{Product: "Mouse", Quantity: domain.Int(10), Price: domain.Int(20)},
				{Product: "Laptop", Quantity: domain.Int(5), Price: domain.Int(800)},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				require.Len(t, result.Records, 2)
				assert.Equal(t, []string{"Laptop", "Mouse"}, products(result.Records))

				assert.Equal(t, int64(5), result.Records[0].Quantity)
				assertDecimal(t, "800", result.Records[0].Price)
				assertDecimal(t, "4000", result.Records[0].Revenue)

				assert.Equal(t, int64(10), result.Records[1].Quantity)
				assertDecimal(t, "20", result.Records[1].Price)
				assertDecimal(t, "200", result.Records[1].Revenue)

				assertDecimal(t, "4200", result.TotalRevenue)
				assert.Empty(t, result.Skipped)
			},
		},
		{
			name: "Preço ausente vale zero e o produto continua no resultado",
			input: domain.SalesData{
				{Product: "Mouse", Quantity: domain.Int(10), Price: domain.Int(20)},
				{Product: "Cable", Quantity: domain.Int(4)},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				require.Len(t, result.Records, 2)
				assert.Equal(t, []string{"Mouse", "Cable"}, products(result.Records))
				assertDecimal(t, "0", result.Records[1].Price)
				assertDecimal(t, "0", result.Records[1].Revenue)
				assertDecimal(t, "200", result.TotalRevenue)
				assert.Empty(t, result.Skipped)
			},
		},
		{
			name: "Quantidade não numérica descarta a entrada",
			input: domain.SalesData{
				{Product: "Mouse", Quantity: domain.Int(10), Price: domain.Int(20)},
				{Product: "Adapter", Quantity: domain.Text("ten"), Price: domain.Int(1000)},
				{Product: "Keyboard", Quantity: domain.Int(7), Price: domain.Int(50)},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				assert.Equal(t, []string{"Keyboard", "Mouse"}, products(result.Records))
				assertDecimal(t, "550", result.TotalRevenue)

				require.Len(t, result.Skipped, 1)
				assert.Equal(t, "Adapter", result.Skipped[0].Product)
				assert.ErrorIs(t, result.Skipped[0].Err, ErrInvalidQuantity)
				assert.ErrorIs(t, result.Skipped[0].Err, domain.ErrNotNumeric)

				var entryErr *EntryError
				require.True(t, errors.As(result.Skipped[0].Err, &entryErr))
				assert.Equal(t, "quantity", entryErr.Field)
			},
		},
		{
			name:  "Entrada vazia",
			input: domain.SalesData{},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				assert.Empty(t, result.Records)
				assert.Empty(t, result.Skipped)
				assertDecimal(t, "0", result.TotalRevenue)
			},
		},
		{
			name:  "Entrada nula se comporta como vazia",
			input: nil,
			validate: func(t *testing.T, result *domain.AggregationResult) {
				assert.NotNil(t, result.Records)
				assert.Empty(t, result.Records)
				assertDecimal(t, "0", result.TotalRevenue)
			},
		},
		{
			name: "Empates mantêm a ordem da entrada",
			input: domain.SalesData{
				{Product: "A", Quantity: domain.Int(2), Price: domain.Int(50)},
				{Product: "B", Quantity: domain.Int(1), Price: domain.Int(300)},
				{Product: "C", Quantity: domain.Int(4), Price: domain.Int(25)},
				{Product: "D", Quantity: domain.Int(10), Price: domain.Int(10)},
				{Product: "E", Quantity: domain.Int(0), Price: domain.Int(99)},
				{Product: "F"},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				assert.Equal(t, []string{"B", "A", "C", "D", "E", "F"}, products(result.Records))
				assertDecimal(t, "600", result.TotalRevenue)
			},
		},
		{
			name: "Produto duplicado - últimos valores na posição da primeira ocorrência",
			input: domain.SalesData{
				{Product: "Mouse", Quantity: domain.Int(1), Price: domain.Int(20)},
				{Product: "Monitor", Quantity: domain.Int(1), Price: domain.Int(20)},
				{Product: "Mouse", Quantity: domain.Int(3), Price: domain.Int(20)},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				require.Len(t, result.Records, 2)
				assert.Equal(t, []string{"Mouse", "Monitor"}, products(result.Records))
				assert.Equal(t, int64(3), result.Records[0].Quantity)
				assertDecimal(t, "80", result.TotalRevenue)
			},
		},
		{
			name: "Produto duplicado com última entrada inválida é descartado",
			input: domain.SalesData{
				{Product: "Mouse", Quantity: domain.Int(1), Price: domain.Int(20)},
				{Product: "Mouse", Quantity: domain.Null(), Price: domain.Int(20)},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				assert.Empty(t, result.Records)
				require.Len(t, result.Skipped, 1)
				assertDecimal(t, "0", result.TotalRevenue)
			},
		},
		{
			name: "Valores inválidos são descartados e reportados",
			input: domain.SalesData{
				{Product: "Negative", Quantity: domain.Int(-1), Price: domain.Int(10)},
				{Product: "Fraction", Quantity: domain.Number("1.5"), Price: domain.Int(10)},
				{Product: "NegativePrice", Quantity: domain.Int(1), Price: domain.Number("-0.01")},
				{Product: "TextPrice", Quantity: domain.Int(1), Price: domain.Text("free")},
				{Product: "Huge", Quantity: domain.Number("9223372036854775808"), Price: domain.Int(1)},
				{Product: "Valid", Quantity: domain.Number("2.0"), Price: domain.Number("9.99")},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, "Valid", result.Records[0].Product)
				assert.Equal(t, int64(2), result.Records[0].Quantity)
				assertDecimal(t, "19.98", result.TotalRevenue)

				require.Len(t, result.Skipped, 5)
				assert.ErrorIs(t, result.Skipped[0].Err, ErrNegativeValue)
				assert.ErrorIs(t, result.Skipped[1].Err, ErrInvalidQuantity)
				assert.ErrorIs(t, result.Skipped[2].Err, ErrInvalidPrice)
				assert.ErrorIs(t, result.Skipped[2].Err, ErrNegativeValue)
				assert.ErrorIs(t, result.Skipped[3].Err, ErrInvalidPrice)
				assert.ErrorIs(t, result.Skipped[4].Err, ErrInvalidQuantity)
			},
		},
		{
			name: "Expoentes fora do limite são descartados sem calcular",
			input: domain.SalesData{
				{Product: "HugePrice", Quantity: domain.Int(1), Price: domain.Number("1e20000000")},
				{Product: "TinyPrice", Quantity: domain.Int(1), Price: domain.Number("1e-20000000")},
				{Product: "HugeQuantity", Quantity: domain.Number("1e20000000"), Price: domain.Int(1)},
				{Product: "TinyQuantity", Quantity: domain.Number("1e-20000000"), Price: domain.Int(1)},
				{Product: "Valid", Quantity: domain.Int(3), Price: domain.Number("1.5e1")},
			},
			validate: func(t *testing.T, result *domain.AggregationResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, "Valid", result.Records[0].Product)
				assertDecimal(t, "45", result.TotalRevenue)

				require.Len(t, result.Skipped, 4)
				assert.Equal(t, []string{"HugePrice", "TinyPrice", "HugeQuantity", "TinyQuantity"}, skippedProducts(result.Skipped))
				for i, want := range []error{ErrInvalidPrice, ErrInvalidPrice, ErrInvalidQuantity, ErrInvalidQuantity} {
					assert.ErrorIs(t, result.Skipped[i].Err, want)
					assert.ErrorIs(t, result.Skipped[i].Err, domain.ErrOutOfRange)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Aggregate(tt.input)
			require.NotNil(t, result)
			tt.validate(t, result)
		})
	}
}

func TestService_Aggregate_Invariants(t *testing.T) {
	service := NewService()

	input := domain.SampleSalesData()
	input = append(input,
		domain.ProductEntry{Product: "Webcam", Quantity: domain.Int(4), Price: domain.Number("45.50")},
		domain.ProductEntry{Product: "Broken", Quantity: domain.Text("n/a"), Price: domain.Int(5)},
	)

	result := service.Aggregate(input)

	sum := decimal.Zero
	for i, record := range result.Records {
		assert.True(t, record.Price.Mul(decimal.NewFromInt(record.Quantity)).Equal(record.Revenue), record.Product)
		sum = sum.Add(record.Revenue)

		if i > 0 {
			assert.False(t, record.Revenue.GreaterThan(result.Records[i-1].Revenue), "ordem decrescente quebrada em %s", record.Product)
		}
	}
	assert.True(t, sum.Equal(result.TotalRevenue))
	assertDecimal(t, "5782", result.TotalRevenue)

	again := service.Aggregate(input)
	assert.Equal(t, products(result.Records), products(again.Records))
	assert.True(t, result.TotalRevenue.Equal(again.TotalRevenue))
	assert.Len(t, again.Skipped, len(result.Skipped))
}

func TestService_Aggregate_MalformedEntry(t *testing.T) {
	var data domain.SalesData
	require.NoError(t, yaml.Unmarshal([]byte("Headset: 42\nMouse:\n  quantity: 1\n  price: 2\n"), &data))

	result := NewService().Aggregate(data)

	assert.Equal(t, []string{"Mouse"}, products(result.Records))
	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0].Err, ErrMalformedEntry)
}

func TestEntryError_Error(t *testing.T) {
	err := newEntryError("Mouse", "price", ErrInvalidPrice)
	assert.Equal(t, `product "Mouse": price: invalid price`, err.Error())

	err = newEntryError("Mouse", "", ErrMalformedEntry)
	assert.Equal(t, `product "Mouse": malformed entry`, err.Error())
}
