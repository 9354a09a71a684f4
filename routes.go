package main

import (
	"net/http"

	"planning-api/config"
	"planning-api/handlers"
	"planning-api/utilities"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// LoadRoutes monta o roteador com as rotas de planning, os middlewares, CORS e recuperação de pânico.
func LoadRoutes(cfg *config.Config, store handlers.TaskStore, health handlers.HealthChecker) http.Handler {
	planning := handlers.NewPlanningHandler(store)

	r := mux.NewRouter()
	// r.Use só vale para rotas encontradas; 404 e 405 recebem os middlewares aqui
	r.NotFoundHandler = withMiddleware(http.HandlerFunc(handlers.NotFoundHandler))
	r.MethodNotAllowedHandler = withMiddleware(http.HandlerFunc(handlers.MethodNotAllowedHandler))

	r.Use(handlers.RequestIDMiddleware)
	r.Use(handlers.LoggingMiddleware)

	r.HandleFunc("/", planning.Welcome).Methods("GET")
	r.HandleFunc("/health", handlers.HealthHandler(health)).Methods("GET")

	// --- Rotas de Tarefas ---
	r.HandleFunc("/planning", planning.ListTasks).Methods("GET")
	r.HandleFunc("/planning", planning.CreateTask).Methods("POST")
	r.HandleFunc("/planning/{id}", planning.UpdateTask).Methods("PUT")
	r.HandleFunc("/planning/{id}", planning.DeleteTask).Methods("DELETE")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", handlers.RequestIDHeader})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(cfg.Server.AllowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", cfg.Server.AllowedOrigins)

	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(utilities.ErrorLogger),
		gorillahandlers.PrintRecoveryStack(cfg.Log.Debug),
	)

	return recovery(gorillahandlers.CORS(headers, methods, origins)(r))
}

func withMiddleware(h http.Handler) http.Handler {
	return handlers.RequestIDMiddleware(handlers.LoggingMiddleware(h))
}
