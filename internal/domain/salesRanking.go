// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "github.com/shopspring/decimal"

// AggregationResult é o ranking de produtos por receita (decrescente) e a receita total
type AggregationResult struct {
	Records      []SaleRecord
	TotalRevenue decimal.Decimal
	Skipped      []SkippedEntry // Entradas descartadas, na ordem da entrada
}

// SkippedEntry é uma entrada que não pôde ser calculada
type SkippedEntry struct {
	Product string
	Err     error
}

type SalesRankingResponse struct {
	Records      []SaleRecordResponse   `json:"records"`
	TotalRevenue string                 `json:"total_revenue"`
	Skipped      []SkippedEntryResponse `json:"skipped"`
}

type SaleRecordResponse struct {
	Position int    `json:"position"`
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
	Revenue  string `json:"revenue"`
}

type SkippedEntryResponse struct {
	Product string `json:"product"`
	Reason  string `json:"reason"`
}

// NewSalesRankingResponse converte o resultado da agregação para a resposta da API.
// Valores monetários seguem com duas casas decimais.
func NewSalesRankingResponse(result *AggregationResult) *SalesRankingResponse {
	response := &SalesRankingResponse{
		Records:      make([]SaleRecordResponse, 0, len(result.Records)),
		TotalRevenue: result.TotalRevenue.StringFixed(2),
		Skipped:      make([]SkippedEntryResponse, 0, len(result.Skipped)),
	}

	for i, record := range result.Records {
		response.Records = append(response.Records, SaleRecordResponse{
			Position: i + 1,
			Product:  record.Product,
			Quantity: record.Quantity,
			Price:    record.Price.StringFixed(2),
			Revenue:  record.Revenue.StringFixed(2),
		})
	}

	for _, skipped := range result.Skipped {
		response.Skipped = append(response.Skipped, SkippedEntryResponse{
			Product: skipped.Product,
			Reason:  skipped.Err.Error(),
		})
	}

	return response
}
