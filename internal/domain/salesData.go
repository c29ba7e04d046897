package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotNumeric = errors.New("value is not numeric")
	ErrOutOfRange = errors.New("value is out of range")
)

// Limites aplicados antes de qualquer aritmética com o valor
const (
	maxNumberLength = 64
	maxDigits       = 38
	minExponent     = -18
	maxExponent     = 18
	maxDisplayed    = 64
)

type valueKind int

const (
	valueAbsent valueKind = iota
	valueNumber
	valueText
	valueNull
	valueComposite
)

// Value guarda um escalar bruto da entrada. O valor ausente equivale a zero.
type Value struct {
	kind valueKind
	raw  string
}

func Int(v int64) Value {
	return Value{kind: valueNumber, raw: strconv.FormatInt(v, 10)}
}

func Float(v float64) Value {
	return Value{kind: valueNumber, raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Number cria um valor numérico a partir da sua representação decimal (ex: "19.90")
func Number(s string) Value {
	return Value{kind: valueNumber, raw: s}
}

func Text(s string) Value {
	return Value{kind: valueText, raw: s}
}

func Null() Value {
	return Value{kind: valueNull}
}

// IsSet indica se o campo foi informado na entrada
func (v Value) IsSet() bool {
	return v.kind != valueAbsent
}

func (v Value) String() string {
	switch v.kind {
	case valueAbsent:
		return "<absent>"
	case valueNull:
		return "null"
	case valueComposite:
		return "<composite>"
	case valueText:
		return strconv.Quote(truncate(v.raw))
	default:
		return truncate(v.raw)
	}
}

// Decimal converte o valor em decimal. Ausente vira zero; texto, null e
// estruturas retornam ErrNotNumeric. Números longos demais ou com expoente
// fora de [-18, 18] retornam ErrOutOfRange.
func (v Value) Decimal() (decimal.Decimal, error) {
	switch v.kind {
	case valueAbsent:
		return decimal.Zero, nil
	case valueNumber:
		if len(v.raw) > maxNumberLength {
			return decimal.Zero, fmt.Errorf("%w: %d characters", ErrOutOfRange, len(v.raw))
		}
		d, err := decimal.NewFromString(v.raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, v.raw)
		}
		if exp := d.Exponent(); exp < minExponent || exp > maxExponent || d.NumDigits() > maxDigits {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrOutOfRange, v.raw)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotNumeric, v)
	}
}

func truncate(s string) string {
	if len(s) <= maxDisplayed {
		return s
	}
	return s[:maxDisplayed] + "..."
}

// UnmarshalYAML aceita apenas escalares numéricos como números
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	*v = valueFromNode(node)
	return nil
}

func valueFromNode(node *yaml.Node) Value {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	if node.Kind != yaml.ScalarNode {
		return Value{kind: valueComposite}
	}

	switch node.ShortTag() {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Number(node.Value)
		}
		return Int(i)
	case "!!float":
		if _, err := decimal.NewFromString(node.Value); err == nil {
			return Number(node.Value)
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Number(node.Value)
		}
		return Float(f)
	case "!!null":
		return Null()
	default:
		return Text(node.Value)
	}
}

// UnmarshalJSON aceita números JSON; strings, booleanos e null ficam como não numéricos
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Null()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '{', '[':
		*v = Value{kind: valueComposite}
	case 't', 'f':
		*v = Text(string(data))
	default:
		*v = Number(string(data))
	}

	return nil
}

// ProductEntry é a entrada bruta de um produto
type ProductEntry struct {
	Product   string `json:"product" yaml:"product"`
	Quantity  Value  `json:"quantity" yaml:"quantity"`
	Price     Value  `json:"price" yaml:"price"`
	malformed bool
}

// Malformed indica que a entrada do produto não era um mapa com quantity/price
func (e ProductEntry) Malformed() bool {
	return e.malformed
}

// SalesData é a entrada bruta do relatório, na ordem em que os produtos foram informados
type SalesData []ProductEntry

// UnmarshalYAML lê um mapa "produto: {quantity, price}" mantendo a ordem do documento
func (s *SalesData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("sales data must be a mapping of products, got %s", node.ShortTag())
	}

	entries := make(SalesData, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		entry := ProductEntry{Product: keyNode.Value}

		if valueNode.Kind == yaml.AliasNode && valueNode.Alias != nil {
			valueNode = valueNode.Alias
		}

		if valueNode.Kind != yaml.MappingNode {
			entry.malformed = true
			entries = append(entries, entry)
			continue
		}

		for j := 0; j+1 < len(valueNode.Content); j += 2 {
			switch valueNode.Content[j].Value {
			case "quantity":
				entry.Quantity = valueFromNode(valueNode.Content[j+1])
			case "price":
				entry.Price = valueFromNode(valueNode.Content[j+1])
			}
		}

		entries = append(entries, entry)
	}

	*s = entries
	return nil
}

// SampleSalesData retorna o conjunto de vendas de exemplo usado quando nenhum arquivo é informado
func SampleSalesData() SalesData {
	return SalesData{
		{Product: "Mouse", Quantity: Int(10), Price: Int(20)},
		{Product: "Laptop", Quantity: Int(5), Price: Int(800)},
		{Product: "Keyboard", Quantity: Int(7), Price: Int(50)},
		{Product: "Monitor", Quantity: Int(3), Price: Int(300)},
		{Product: "USB Drive", Quantity: Int(15), Price: Int(10)},
	}
}
