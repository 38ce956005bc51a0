package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/diewo77/lavanderia-app/internal/models"
	"github.com/diewo77/lavanderia-app/internal/pricing"
)

// Validation errors surfaced to the user as flash messages; nothing is
// persisted when Compose returns one of these.
var (
	ErrClienteRequerido = errors.New("el nombre del cliente es obligatorio")
	ErrSinItems         = errors.New("agrega al menos un ítem con cantidad/precio")
)

// BoletaForm is the raw POST payload of the new-boleta form. The item fields
// are parallel string slices; shorter slices are treated as padded with "".
type BoletaForm struct {
	Cliente      string
	Direccion    string
	Telefono     string
	EntregaFecha string
	EntregaHora  string
	MetodoPago   string
	ACuenta      string
	Notas        string

	Tipos         []string
	Descripciones []string
	Cantidades    []string
	Lavados       []string
	Perfumados    []string
	PUnits        []string
}

// BoletaService composes validated, priced boletas out of raw form input.
type BoletaService struct{}

func NewBoletaService() *BoletaService { return &BoletaService{} }

// Compose turns the form into a header with priced line items. Numeric fields
// are coerced leniently (comma decimals accepted, malformed input becomes 0);
// rows with no type, no quantity and no price are dropped. Returns
// ErrClienteRequerido / ErrSinItems for the two user-recoverable cases.
func (s *BoletaService) Compose(f BoletaForm, now time.Time) (*models.Boleta, error) {
	cliente := strings.TrimSpace(f.Cliente)
	if cliente == "" {
		return nil, ErrClienteRequerido
	}

	metodoPago := f.MetodoPago
	if metodoPago == "" {
		metodoPago = "efectivo"
	}
	aCuenta := toFloat(f.ACuenta)

	n := maxLen(f.Tipos, f.Descripciones, f.Cantidades, f.Lavados, f.Perfumados, f.PUnits)
	items := make([]models.BoletaItem, 0, n)
	importes := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		tipo := strings.TrimSpace(at(f.Tipos, i))
		desc := strings.TrimSpace(at(f.Descripciones, i))
		cantidad := toFloat(at(f.Cantidades, i))
		punit := toFloat(at(f.PUnits, i))
		lavado := strings.TrimSpace(at(f.Lavados, i))
		if lavado == "" {
			lavado = "Normal"
		}
		perfumado := at(f.Perfumados, i) == "1"

		// Empty rows (the form always submits the template row).
		if tipo == "" && cantidad == 0 && punit == 0 {
			continue
		}
		if tipo == "" {
			tipo = models.TipoKilo
		}
		if desc == "" {
			desc = capitalize(tipo)
		}

		it := models.BoletaItem{
			Descripcion: desc,
			Tipo:        tipo,
			Lavado:      lavado,
			Perfumado:   perfumado,
			PUnit:       punit,
			Importe:     pricing.Importe(cantidad, punit),
		}
		if tipo == models.TipoKilo {
			it.Kilos = cantidad
		} else {
			it.Prendas = int(cantidad)
		}
		items = append(items, it)
		importes = append(importes, it.Importe)
	}
	if len(items) == 0 {
		return nil, ErrSinItems
	}

	total := pricing.Sum(importes...)
	b := &models.Boleta{
		Cliente:      cliente,
		Direccion:    strings.TrimSpace(f.Direccion),
		Telefono:     strings.TrimSpace(f.Telefono),
		Fecha:        now.Format("2006-01-02 15:04:05"),
		EntregaFecha: f.EntregaFecha,
		EntregaHora:  f.EntregaHora,
		MetodoPago:   metodoPago,
		Estado:       "registrado",
		ACuenta:      aCuenta,
		Saldo:        pricing.Money(total - aCuenta),
		Total:        total,
		Notas:        strings.TrimSpace(f.Notas),
		Items:        items,
	}
	return b, nil
}

// Resumen derives the legacy single-line summary row for a composed boleta:
// quantities aggregated by type, perfumado flags OR-ed, price mirroring the
// header total.
func (s *BoletaService) Resumen(b *models.Boleta) models.BoletaResumen {
	var sumKilos float64
	var sumUnidades int
	perfumado := false
	for _, it := range b.Items {
		if it.Tipo == models.TipoKilo {
			sumKilos += it.Kilos
		} else {
			sumUnidades += it.Prendas
		}
		if it.Perfumado {
			perfumado = true
		}
	}

	partes := []string{}
	if sumKilos > 0 {
		partes = append(partes, fmt.Sprintf("%.2f kg", sumKilos))
	}
	if sumUnidades > 0 {
		partes = append(partes, fmt.Sprintf("%d unidad(es)", sumUnidades))
	}
	tipoItem := "multi"
	if len(partes) > 0 {
		tipoItem = "multi: " + strings.Join(partes, ", ")
	}

	return models.BoletaResumen{
		Cliente:    b.Cliente,
		TipoItem:   tipoItem,
		Kilos:      sumKilos,
		Cantidad:   sumUnidades,
		Servicio:   "mixto",
		Perfumado:  perfumado,
		Precio:     b.Total,
		Fecha:      b.Fecha,
		MetodoPago: b.MetodoPago,
		Estado:     b.Estado,
	}
}

// toFloat coerces a form value to a number. Comma decimal separators are
// accepted; anything unparseable becomes 0 (leniency policy: bad numeric
// input never fails the request).
func toFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func at(xs []string, i int) string {
	if i < len(xs) {
		return xs[i]
	}
	return ""
}

func maxLen(lists ...[]string) int {
	n := 0
	for _, l := range lists {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
