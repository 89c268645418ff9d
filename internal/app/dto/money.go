package dto

import "github.com/shopspring/decimal"

// Money renders an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NullableMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := Money(d.Decimal)
	return &s
}

func stringList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func jsonObject(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return map[string]interface{}{}
	}
	return in
}
