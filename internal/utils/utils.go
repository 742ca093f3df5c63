package utils

import (
	"encoding/json"
	"net/http"
)

// Json пишет v как JSON с указанным статусом.
func Json(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Err отвечает {"error": "..."} с указанным статусом.
func Err(w http.ResponseWriter, status int, err error) error {
	return Json(w, status, map[string]string{"error": err.Error()})
}
