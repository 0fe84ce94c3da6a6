package api

import (
	"crypto/hmac"
	"log"
	"net/http"
)

// AuthMiddleware проверяет заголовок X-Api-Secret. Пустой секрет в конфиге
// отключает проверку (локальная разработка).
func AuthMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("X-Api-Secret")
			if header == "" {
				http.Error(w, "Unauthorized: Missing X-Api-Secret header", http.StatusUnauthorized)
				return
			}
			// Сравнение без утечки длины/позиции расхождения
			if !hmac.Equal([]byte(header), []byte(secretKey)) {
				log.Printf("AuthMiddleware: неверный секрет от %s", r.RemoteAddr)
				http.Error(w, "Unauthorized: Invalid secret", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
