package services

import (
	"github.com/shopspring/decimal"

	"stem-orders/models"
)

// Prices in RM.
const (
	BookPrice       = 85
	ArduinoKitPrice = 60
	DeliveryCost    = 10
)

const (
	MinQuantity = 1
	MaxQuantity = 100
)

func UnitPrice(option models.Option) int {
	price := BookPrice
	if option == models.OptionBookAndKit {
		price += ArduinoKitPrice
	}
	return price
}

// CalculateTotal charges delivery once per order, not per unit.
func CalculateTotal(option models.Option, quantity int) decimal.Decimal {
	return decimal.NewFromInt(int64(UnitPrice(option)*quantity + DeliveryCost))
}
