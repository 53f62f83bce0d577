package models

import "github.com/shopspring/decimal"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type OptionCount struct {
	Option Option `json:"option"`
	Count  int    `json:"count"`
}

type Summary struct {
	TotalOrders int             `json:"total_orders"`
	ByOption    []OptionCount   `json:"by_option"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// TotalSalesText formats the sales total like 1,234.50.
func (s Summary) TotalSalesText() string {
	return FormatMoney(s.TotalSales)
}

func FormatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if fixed[0] == '-' {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]
	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	return sign + string(out) + frac
}
