// Package whatsapp builds the pre-filled wa.me deep link sent to customers
// after a boleta is registered.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diewo77/lavanderia-app/internal/models"
)

// Local numbers get the Peruvian country code prepended.
const countryCode = "51"

// NormalizePhone reduces a free-form phone field to wa.me digits. Returns ""
// when the input carries no digits at all. Numbers without the country code
// get it prepended after trimming leading zeros.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + strings.TrimLeft(digits, "0")
	}
	return digits
}

// Link builds the notification URL for a registered boleta. The target is the
// customer's normalized phone when one was given, otherwise the shop's own
// number. direccionNegocio fills in when the boleta has no delivery address.
func Link(b *models.Boleta, numeroNegocio, direccionNegocio string) string {
	destino := NormalizePhone(b.Telefono)
	if destino == "" {
		destino = numeroNegocio
	}

	entregaFecha := b.EntregaFecha
	if entregaFecha == "" {
		entregaFecha = "-"
	}
	direccion := b.Direccion
	if direccion == "" {
		direccion = direccionNegocio
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Hola %s, gracias por elegir Lavandería RÍOS.\n", b.Cliente)
	fmt.Fprintf(&msg, "Total: S/ %.2f. A cuenta: S/ %.2f. Saldo: S/ %.2f.\n", b.Total, b.ACuenta, b.Saldo)
	fmt.Fprintf(&msg, "Entrega: %s %s.\n", entregaFecha, b.EntregaHora)
	fmt.Fprintf(&msg, "Dirección: %s.\n", direccion)
	msg.WriteString("Detalle:")
	for _, it := range b.Items {
		marca := ""
		if it.Perfumado {
			marca = " (✨ Perfumado)"
		}
		fmt.Fprintf(&msg, "\n• %s%s — S/ %.2f", it.Descripcion, marca, it.Importe)
	}

	return "https://wa.me/" + destino + "?text=" + url.QueryEscape(msg.String())
}
