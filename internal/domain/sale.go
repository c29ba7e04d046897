package domain

import "github.com/shopspring/decimal"

// SaleRecord representa uma linha do relatório já calculada
type SaleRecord struct {
	Product  string
	Quantity int64
	Price    decimal.Decimal
	Revenue  decimal.Decimal // Sempre Quantity * Price
}

// NewSaleRecord cria um registro calculando a receita a partir da quantidade e do preço
func NewSaleRecord(product string, quantity int64, price decimal.Decimal) SaleRecord {
	return SaleRecord{
		Product:  product,
		Quantity: quantity,
		Price:    price,
		Revenue:  price.Mul(decimal.NewFromInt(quantity)),
	}
}
