package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/lavanderia-app/internal/config"
	"github.com/diewo77/lavanderia-app/internal/db"
	"github.com/diewo77/lavanderia-app/internal/models"
)

func testConfig() config.Config {
	return config.Config{
		Port:     "8080",
		Env:      "test",
		PageSize: 20,
		Business: config.Business{
			WhatsApp:    "51999999999",
			Direccion:   "Tu calle #123, Huánuco",
			PromoBanner: "🌿 Martes: perfumado GRATIS en lavados por kilo",
		},
	}
}

func setupApp(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(gdb, testConfig(), log), gdb
}

func postForm(t *testing.T, app http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func get(app http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func boletaForm() url.Values {
	return url.Values{
		"cliente":        {"María Ríos"},
		"telefono":       {"987654321"},
		"a_cuenta":       {"10.00"},
		"item_tipo":      {"kilo", "terno"},
		"item_desc":      {"", "Terno gris"},
		"item_cantidad":  {"3", "2"},
		"item_lavado":    {"", "Seco"},
		"item_perfumado": {"0", "1"},
		"item_punit":     {"5.00", "8.00"},
	}
}

func TestCreateBoletaRedirectsToDetailWithWhatsAppLink(t *testing.T) {
	app, gdb := setupApp(t)

	w := postForm(t, app, "/boleta/nueva", boletaForm())
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/boleta/1?"), loc)
	u, err := url.Parse(loc)
	require.NoError(t, err)
	wa := u.Query().Get("wa")
	assert.True(t, strings.HasPrefix(wa, "https://wa.me/51987654321?text="), wa)

	var b models.Boleta
	require.NoError(t, gdb.Preload("Items").First(&b).Error)
	assert.Equal(t, 31.0, b.Total)
	assert.Equal(t, 21.0, b.Saldo)
	require.Len(t, b.Items, 2)

	var legacy models.BoletaResumen
	require.NoError(t, gdb.First(&legacy).Error)
	assert.Equal(t, "multi: 3.00 kg, 2 unidad(es)", legacy.TipoItem)
	assert.True(t, legacy.Perfumado)
	assert.Equal(t, 31.0, legacy.Precio)

	// follow the redirect: detail page shows the boleta
	detail := get(app, loc)
	require.Equal(t, http.StatusOK, detail.Code)
	body := detail.Body.String()
	assert.Contains(t, body, "María Ríos")
	assert.Contains(t, body, "31.00")
	assert.Contains(t, body, "Avisar por WhatsApp")
}

func TestCreateBoletaWithoutClienteDoesNotPersist(t *testing.T) {
	app, gdb := setupApp(t)

	form := boletaForm()
	form.Set("cliente", "   ")
	w := postForm(t, app, "/boleta/nueva", form)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "obligatorio")

	var headers, items, legacy int64
	gdb.Model(&models.Boleta{}).Count(&headers)
	gdb.Model(&models.BoletaItem{}).Count(&items)
	gdb.Model(&models.BoletaResumen{}).Count(&legacy)
	assert.Zero(t, headers)
	assert.Zero(t, items)
	assert.Zero(t, legacy)
}

func TestCreateBoletaWithOnlyEmptyRowsDoesNotPersist(t *testing.T) {
	app, gdb := setupApp(t)

	form := url.Values{
		"cliente":       {"María"},
		"item_tipo":     {"", ""},
		"item_cantidad": {"", "0"},
		"item_punit":    {"0", ""},
	}
	w := postForm(t, app, "/boleta/nueva", form)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "al menos un ítem")

	var headers int64
	gdb.Model(&models.Boleta{}).Count(&headers)
	assert.Zero(t, headers)
}

func TestDetailNotFound(t *testing.T) {
	app, _ := setupApp(t)
	assert.Equal(t, http.StatusNotFound, get(app, "/boleta/999").Code)
	assert.Equal(t, http.StatusNotFound, get(app, "/boleta/abc").Code)
}

func TestListPaginationAndFilters(t *testing.T) {
	app, gdb := setupApp(t)
	for i := 0; i < 25; i++ {
		require.NoError(t, gdb.Create(&models.BoletaResumen{
			Cliente: fmt.Sprintf("Cliente %02d", i), TipoItem: "multi",
			Precio: 10, Fecha: "2025-08-12 10:00:00",
		}).Error)
	}

	w := get(app, "/boletas")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Página 1 de 2")
	assert.Equal(t, 20, strings.Count(w.Body.String(), "multi"))

	w2 := get(app, "/boletas?page=2")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "Página 2 de 2")
	assert.Equal(t, 5, strings.Count(w2.Body.String(), "multi"))

	filtrado := get(app, "/boletas?cliente=Cliente+07")
	require.Equal(t, http.StatusOK, filtrado.Code)
	assert.Contains(t, filtrado.Body.String(), "Página 1 de 1")
	assert.Equal(t, 1, strings.Count(filtrado.Body.String(), "multi"))
}

func TestListEmptyStillOnePage(t *testing.T) {
	app, _ := setupApp(t)
	w := get(app, "/boletas")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Página 1 de 1")
	assert.Contains(t, w.Body.String(), "Sin resultados.")
}

func TestExportCSV(t *testing.T) {
	app, gdb := setupApp(t)
	require.NoError(t, gdb.Create(&models.BoletaResumen{
		Cliente: "=HYPERLINK(\"x\")", TipoItem: "multi: 1.00 kg",
		Kilos: 1, Perfumado: true, Precio: 12.5, Fecha: "2025-08-12 10:00:00",
		MetodoPago: "efectivo", Estado: "registrado",
	}).Error)

	w := get(app, "/export.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=boletas_")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "ID,Fecha,Cliente,Tipo,Kilos,Cantidad,Servicio,Perfumado,Método de pago,Estado,Precio")
	assert.Contains(t, body, "'=HYPERLINK")
	assert.Contains(t, body, "Sí")
	assert.Contains(t, body, "12.50")
}

func TestLogoutFlashesAndRedirectsHome(t *testing.T) {
	app, _ := setupApp(t)
	w := get(app, "/logout")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" {
			flash = c
		}
	}
	require.NotNil(t, flash, "expected flash cookie on logout")

	// next page shows and clears the message
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: flash.Value})
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sesión cerrada (demo).")
}

func TestHomeShowsPromoBanner(t *testing.T) {
	app, _ := setupApp(t)
	w := get(app, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "perfumado GRATIS")
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)
	w := get(app, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
