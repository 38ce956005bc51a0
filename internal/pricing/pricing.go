// Package pricing holds the static price list of the shop and the fixed
// 2-decimal money arithmetic used everywhere financial totals are computed.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/diewo77/lavanderia-app/internal/models"
)

// Lista is the price table: base unit prices per item type plus additive
// surcharges. A pure lookup table; nothing here touches the database.
type Lista struct {
	PrecioKilo       float64
	PrecioEdredon    float64
	PrecioTerno      float64
	RecargoServicio  map[string]float64 // keyed by wash style ("Seco", "A mano", ...)
	RecargoPerfumado float64
}

// Default returns the shop's current price list.
func Default() Lista {
	return Lista{
		PrecioKilo:    5.00,
		PrecioEdredon: 15.00,
		PrecioTerno:   8.00,
		RecargoServicio: map[string]float64{
			"Seco":   3.00,
			"A mano": 4.00,
		},
		RecargoPerfumado: 2.00,
	}
}

// PrecioUnitario returns the base unit price for an item type, 0 when the
// type has no listed price (tipo "otro": price is negotiated on the spot).
func (l Lista) PrecioUnitario(tipo string) float64 {
	switch tipo {
	case models.TipoKilo:
		return l.PrecioKilo
	case models.TipoEdredon:
		return l.PrecioEdredon
	case models.TipoTerno:
		return l.PrecioTerno
	}
	return 0
}

// Quote prices one line: base price times quantity, plus the wash-style
// surcharge, plus the perfumado surcharge when requested. Every step is
// rounded to cents half-up so quoted amounts match what lands in reports.
func (l Lista) Quote(tipo string, cantidad float64, lavado string, perfumado bool) float64 {
	subtotal := Money(l.PrecioUnitario(tipo) * cantidad)
	if rec, ok := l.RecargoServicio[lavado]; ok {
		subtotal = Money(subtotal + rec)
	}
	if perfumado {
		subtotal = Money(subtotal + l.RecargoPerfumado)
	}
	return subtotal
}

// Money rounds to 2 decimals with round-half-up semantics. All monetary
// arithmetic in the repo funnels through here; totals are compared for
// equality in reports, so float drift is not acceptable.
func Money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Importe computes a line amount: round(cantidad * punit, 2).
func Importe(cantidad, punit float64) float64 {
	c := decimal.NewFromFloat(cantidad)
	p := decimal.NewFromFloat(punit)
	return c.Mul(p).Round(2).InexactFloat64()
}

// Sum adds amounts and rounds the result to cents.
func Sum(vals ...float64) float64 {
	acc := decimal.Zero
	for _, v := range vals {
		acc = acc.Add(decimal.NewFromFloat(v))
	}
	return acc.Round(2).InexactFloat64()
}
