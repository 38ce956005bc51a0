package view

import (
	"net/http"
	"net/url"
	"time"
)

const flashCookie = "flash"

// SetFlash stores a one-shot message for the next rendered page. Category is
// prepended ("error|mensaje") so templates can style it.
func SetFlash(w http.ResponseWriter, category, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(category + "|" + msg),
		Path:  "/",
	})
}

// PopFlash returns the pending flash message (category, text) and clears the
// cookie. Empty strings when there is none.
func PopFlash(w http.ResponseWriter, r *http.Request) (string, string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{
		Name: flashCookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1,
	})
	dec, derr := url.QueryUnescape(c.Value)
	if derr != nil {
		dec = c.Value
	}
	for i := 0; i < len(dec); i++ {
		if dec[i] == '|' {
			return dec[:i], dec[i+1:]
		}
	}
	return "info", dec
}
