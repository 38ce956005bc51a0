package view

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	// Detect the templates directory whether running from the repo root or a
	// package directory (tests run from internal/handlers).
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the shared template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"year":  func() int { return time.Now().Year() },
		"add":   func(a, b int) int { return a + b },
		"fechaCorta": func(fecha string) string {
			if len(fecha) >= 10 {
				return fecha[:10]
			}
			return fecha
		},
	}
}

// Render parses and executes a page template wrapped in layout.html.
// name is the filename (e.g. "boletas.html"). Parsed templates are cached
// unless DEV=1, which re-parses on every request.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}

	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			return t.Execute(w, data)
		}
	}

	layoutPath := filepath.Join(baseDir, "layout.html")
	mainPath := filepath.Join(baseDir, name)
	t, err := template.New("layout.html").Funcs(Funcs()).ParseFiles(layoutPath, mainPath)
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}
