package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Recovery creates a middleware that turns a panic into a 500 response in the
// GraphQL error format and logs it with a stack trace
func Recovery(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("panic", fmt.Sprint(rec)),
						zap.Stack("stack"),
					)
					writeInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeInternalError(w http.ResponseWriter) {
	body, _ := json.Marshal(map[string]interface{}{
		"data": nil,
		"errors": []map[string]interface{}{{
			"message":    "internal server error",
			"extensions": map[string]interface{}{"code": "INTERNAL"},
		}},
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}
