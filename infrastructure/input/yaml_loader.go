// Package input carrega os dados de vendas informados em arquivo
package input

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/sales-report/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrEmptyInput = errors.New("sales data file is empty")

// LoadSalesData lê um arquivo YAML no formato "produto: {quantity, price}".
// A ordem dos produtos no documento é preservada.
func LoadSalesData(fs afero.Fs, path string) (domain.SalesData, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sales data file %s", path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, path)
	}

	var salesData domain.SalesData
	if err := yaml.Unmarshal(data, &salesData); err != nil {
		return nil, errors.Wrapf(err, "decoding sales data file %s", path)
	}

	logrus.WithFields(logrus.Fields{
		"input":    path,
		"products": len(salesData),
	}).Debug("Dados de vendas carregados")

	return salesData, nil
}

// LoadOrSample usa os dados de exemplo quando nenhum arquivo é configurado
func LoadOrSample(fs afero.Fs, path string) (domain.SalesData, error) {
	if path == "" {
		return domain.SampleSalesData(), nil
	}
	return LoadSalesData(fs, path)
}
