package common

import (
	"fmt"

	decimal2 "github.com/govalues/decimal"
)

type Decimal struct {
	decimal2.Decimal
}

func MustDecimal(s string) Decimal {
	return Decimal{Decimal: decimal2.MustParse(s)}
}

func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal2.Parse(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Decimal: d}, nil
}

func (dec Decimal) Equal(o Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) == 0
}

func (dec Decimal) String() string {
	return dec.Decimal.String()
}

func compareDecimal(a, b Decimal) int {
	return a.Decimal.Cmp(b.Decimal)
}

// checkDecimal accepts v when DECIMAL(typ.Width, typ.Scale) holds it exactly.
// Trailing fraction zeros beyond the scale do not count.
func checkDecimal(typ LType, v Decimal) error {
	d := v.Trim(typ.Scale)
	if d.Scale() > typ.Scale {
		return fmt.Errorf("decimal %s has more than %d fraction digits of %s", v, typ.Scale, typ)
	}
	if !d.IsZero() && d.Prec()-d.Scale() > typ.Width-typ.Scale {
		return fmt.Errorf("decimal %s overflows %s", v, typ)
	}
	return nil
}
