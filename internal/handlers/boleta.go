package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/lavanderia-app/internal/config"
	"github.com/diewo77/lavanderia-app/internal/export"
	"github.com/diewo77/lavanderia-app/internal/pricing"
	"github.com/diewo77/lavanderia-app/internal/services"
	"github.com/diewo77/lavanderia-app/internal/store"
	"github.com/diewo77/lavanderia-app/internal/view"
	"github.com/diewo77/lavanderia-app/internal/whatsapp"

	"github.com/go-chi/chi/v5"
)

// BoletaHandler serves every page of the app. Business display values come in
// through the Config constructed at startup; handlers hold no global state.
type BoletaHandler struct {
	Store   *store.Store
	Svc     *services.BoletaService
	Precios pricing.Lista
	Cfg     config.Config
}

func NewBoletaHandler(st *store.Store, svc *services.BoletaService, precios pricing.Lista, cfg config.Config) *BoletaHandler {
	return &BoletaHandler{Store: st, Svc: svc, Precios: precios, Cfg: cfg}
}

func (h *BoletaHandler) baseData(w http.ResponseWriter, r *http.Request) map[string]any {
	data := map[string]any{
		"WhatsAppNumber": h.Cfg.Business.WhatsApp,
		"LavaDireccion":  h.Cfg.Business.Direccion,
		"PromoBanner":    h.Cfg.Business.PromoBanner,
	}
	if cat, msg := view.PopFlash(w, r); msg != "" {
		data["FlashCategoria"] = cat
		data["Flash"] = msg
	}
	return data
}

// Home: GET /
func (h *BoletaHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", h.baseData(w, r))
}

// Logout: GET /logout — stateless demo, clears no real session.
func (h *BoletaHandler) Logout(w http.ResponseWriter, r *http.Request) {
	view.SetFlash(w, "info", "Sesión cerrada (demo).")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// List: GET /boletas?page=&cliente=&desde=&hasta= — paginated legacy rows.
func (h *BoletaHandler) List(w http.ResponseWriter, r *http.Request) {
	pagina := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			pagina = n
		}
	}
	limite := h.Cfg.PageSize
	offset := (pagina - 1) * limite

	f := store.Filtro{
		Cliente: strings.TrimSpace(r.URL.Query().Get("cliente")),
		Desde:   r.URL.Query().Get("desde"),
		Hasta:   r.URL.Query().Get("hasta"),
	}

	filas, err := h.Store.ListResumen(f, limite, offset)
	if err != nil {
		http.Error(w, "error al listar boletas", http.StatusInternalServerError)
		return
	}
	total, err := h.Store.CountResumen(f)
	if err != nil {
		http.Error(w, "error al listar boletas", http.StatusInternalServerError)
		return
	}
	totalPeriodo, err := h.Store.TotalPeriodo(f)
	if err != nil {
		http.Error(w, "error al listar boletas", http.StatusInternalServerError)
		return
	}
	totalPaginas := int((total + int64(limite) - 1) / int64(limite))
	if totalPaginas < 1 {
		totalPaginas = 1
	}

	data := h.baseData(w, r)
	data["Filas"] = filas
	data["Pagina"] = pagina
	data["TotalPaginas"] = totalPaginas
	data["TotalPeriodo"] = totalPeriodo
	data["Filtros"] = map[string]string{"cliente": f.Cliente, "desde": f.Desde, "hasta": f.Hasta}
	h.render(w, r, "boletas.html", data)
}

// ExportCSV: GET /export.csv — every legacy row, unfiltered.
func (h *BoletaHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filas, err := h.Store.AllResumen()
	if err != nil {
		http.Error(w, "error al exportar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(time.Now()))
	if err := export.WriteCSV(w, filas); err != nil {
		// headers already gone; nothing left to do but log upstream
		return
	}
}

// NewForm: GET /boleta/nueva
func (h *BoletaHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "boleta_nueva.html", h.formData(w, r))
}

// Create: POST /boleta/nueva — validates, persists atomically, redirects to
// the detail view with the WhatsApp link in the query string.
func (h *BoletaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		view.SetFlash(w, "error", "formulario inválido")
		http.Redirect(w, r, "/boleta/nueva", http.StatusSeeOther)
		return
	}
	form := services.BoletaForm{
		Cliente:      r.PostForm.Get("cliente"),
		Direccion:    r.PostForm.Get("direccion"),
		Telefono:     r.PostForm.Get("telefono"),
		EntregaFecha: r.PostForm.Get("entrega_fecha"),
		EntregaHora:  r.PostForm.Get("entrega_hora"),
		MetodoPago:   r.PostForm.Get("metodo_pago"),
		ACuenta:      r.PostForm.Get("a_cuenta"),
		Notas:        r.PostForm.Get("notas"),

		Tipos:         r.PostForm["item_tipo"],
		Descripciones: r.PostForm["item_desc"],
		Cantidades:    r.PostForm["item_cantidad"],
		Lavados:       r.PostForm["item_lavado"],
		Perfumados:    r.PostForm["item_perfumado"],
		PUnits:        r.PostForm["item_punit"],
	}

	b, err := h.Svc.Compose(form, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrClienteRequerido) || errors.Is(err, services.ErrSinItems) {
			h.renderFormError(w, r, capitalizeFirst(err.Error()))
		} else {
			h.renderFormError(w, r, "Ocurrió un error: "+err.Error())
		}
		return
	}

	id, err := h.Store.CreateBoleta(b, h.Svc.Resumen(b))
	if err != nil {
		h.renderFormError(w, r, "Ocurrió un error: "+err.Error())
		return
	}

	waLink := whatsapp.Link(b, h.Cfg.Business.WhatsApp, h.Cfg.Business.Direccion)
	view.SetFlash(w, "success", "Boleta creada con éxito")
	q := url.Values{"wa": {waLink}}
	http.Redirect(w, r, fmt.Sprintf("/boleta/%d?%s", id, q.Encode()), http.StatusSeeOther)
}

// Detail: GET /boleta/{id}
func (h *BoletaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	b, err := h.Store.GetBoleta(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "error al cargar la boleta", http.StatusInternalServerError)
		return
	}
	data := h.baseData(w, r)
	data["Cab"] = b
	data["Items"] = b.Items
	data["WaLink"] = r.URL.Query().Get("wa")
	h.render(w, r, "boleta_detalle.html", data)
}

// formData seeds the new-boleta template, including the price list so unit
// prices pre-fill by item type.
func (h *BoletaHandler) formData(w http.ResponseWriter, r *http.Request) map[string]any {
	data := h.baseData(w, r)
	data["Precios"] = h.Precios
	return data
}

// renderFormError re-renders the form with the message inline. A flash cookie
// would only surface on the next request; this response IS the error page.
func (h *BoletaHandler) renderFormError(w http.ResponseWriter, r *http.Request, msg string) {
	data := h.formData(w, r)
	data["FlashCategoria"] = "error"
	data["Flash"] = msg
	h.render(w, r, "boleta_nueva.html", data)
}

func (h *BoletaHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "template render error: %v", err)
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
