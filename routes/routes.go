package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mseongj/nowcast/handlers"
)

func SetupRoutes(h *handlers.Handlers, publicDir string) *mux.Router {
	router := mux.NewRouter()

	// API 라우트
	router.HandleFunc("/weather", h.GetWeather).Methods("GET")
	router.HandleFunc("/weather/latest", h.GetLatest).Methods("GET")
	router.HandleFunc("/grid", h.GetGrid).Methods("GET")
	router.HandleFunc("/basetime", h.GetBaseTime).Methods("GET")
	router.HandleFunc("/proxy", h.Proxy).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	// 정적 파일 (index.html, script.js)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))

	return router
}
