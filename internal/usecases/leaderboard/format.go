package leaderboard

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale   = "en-US"
	DefaultCurrency = "USD"
)

// CurrencyFormatter formata valores monetários arredondados para inteiro,
// com separador de milhar do locale e o símbolo curto da moeda
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

func NewCurrencyFormatter(locale, code string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocale, locale)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}

	printer := message.NewPrinter(tag)

	return &CurrencyFormatter{
		printer: printer,
		symbol:  printer.Sprint(currency.NarrowSymbol(unit)),
	}, nil
}

// DefaultCurrencyFormatter usa en-US/USD ("$1,235")
func DefaultCurrencyFormatter() *CurrencyFormatter {
	f, _ := NewCurrencyFormatter(DefaultLocale, DefaultCurrency)
	return f
}

func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(0).IntPart()
	if rounded < 0 {
		return "-" + f.symbol + f.printer.Sprintf("%d", -rounded)
	}
	return f.symbol + f.printer.Sprintf("%d", rounded)
}

// FormatURL remove o esquema http(s) e uma barra final
func FormatURL(url string) string {
	if url == "" {
		return ""
	}

	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(url, scheme) {
			url = strings.TrimPrefix(url, scheme)
			break
		}
	}

	return strings.TrimSuffix(url, "/")
}
