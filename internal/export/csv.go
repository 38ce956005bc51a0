// Package export streams the legacy boleta rows as a spreadsheet-safe CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/diewo77/lavanderia-app/internal/models"
)

// Header is the fixed column set of the export; old reports depend on it.
var Header = []string{
	"ID", "Fecha", "Cliente", "Tipo", "Kilos", "Cantidad", "Servicio",
	"Perfumado", "Método de pago", "Estado", "Precio",
}

// Filename returns the timestamped attachment name for a download started at t.
func Filename(t time.Time) string {
	return "boletas_" + t.Format("20060102_150405") + ".csv"
}

// WriteCSV writes the rows UTF-8 with a byte-order mark so spreadsheet apps
// pick the encoding up. Every cell goes through SanitizeCell.
func WriteCSV(w io.Writer, rows []models.BoletaResumen) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, b := range rows {
		perfumado := "No"
		if b.Perfumado {
			perfumado = "Sí"
		}
		record := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Fecha,
			b.Cliente,
			b.TipoItem,
			strconv.FormatFloat(b.Kilos, 'f', -1, 64),
			strconv.Itoa(b.Cantidad),
			b.Servicio,
			perfumado,
			b.MetodoPago,
			b.Estado,
			fmt.Sprintf("%.2f", b.Precio),
		}
		for i := range record {
			record[i] = SanitizeCell(record[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SanitizeCell guards against spreadsheet formula injection: cells starting
// with = + - @ get a leading quote so they are read as text.
func SanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
