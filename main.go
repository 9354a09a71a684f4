package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"planning-api/config"
	"planning-api/database"
	"planning-api/utilities"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
)

const connectTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando apenas variáveis de ambiente")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	utilities.InitLogger(cfg.Log.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	pool, err := database.Open(ctx, cfg.Database)
	if err == nil && cfg.Database.CreateSchema {
		err = pool.EnsureSchema(ctx)
	}
	cancel()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           LoadRoutes(cfg, database.NewPlanningStore(pool), pool),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utilities.LogInfo("Servidor iniciado na porta %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Erro no servidor HTTP: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				utilities.LogInfo("Encerrando servidor HTTP...")
				return server.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait

	// o pool só fecha depois que nenhuma requisição está mais em andamento
	if err := pool.Close(); err != nil {
		utilities.LogError(err, "Erro ao fechar o pool de conexões")
	}
	utilities.LogInfo("Servidor encerrado com código %d", exitCode)
	os.Exit(exitCode)
}
