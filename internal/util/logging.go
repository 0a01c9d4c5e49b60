package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	requestresponse "file-sharing-server/internal/model/requestresponse"
)

// LogError : логирует ошибку и возвращает её обёрнутой для проброса наверх
func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// LogWarn : логирует best-effort ошибку, которую операция переживает
// (чистка осиротевшего блоба, кэш, счётчики)
func LogWarn(message string, err error) {
	log.Printf("%s: %v", message, err)
}

// HandleError : пишет ошибку клиенту в формате ErrorResponse
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}
