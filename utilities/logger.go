package utilities

import (
	"io"
	"log"
	"os"
	"time"
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(io.Discard, "\033[36m[DEBUG]\033[0m ", logFlags)
)

// InitLogger inicializa os loggers. O debug só é emitido quando habilitado.
func InitLogger(debug bool) {
	log.SetFlags(logFlags)

	InfoLogger = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)

	debugOut := io.Discard
	if debug {
		debugOut = os.Stdout
	}
	DebugLogger = log.New(debugOut, "\033[36m[DEBUG]\033[0m ", logFlags)
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(requestID, method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("[%s] %s %s %s %d %v", requestID, method, path, remoteAddr, status, duration)
}

// LogError registra o erro junto com o contexto em que ocorreu
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
