// AngelaMos | 2026
// lang.go

package middleware

import (
	"context"
	"net/http"

	"github.com/biolink-labs/biolink-api/internal/i18n"
)

const MessagesKey contextKey = "messages"

// Lang selects the localized message catalog from the lang request header.
// English is the default for missing or unknown languages.
func Lang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msgs := i18n.ForLang(r.Header.Get("lang"))

		ctx := context.WithValue(r.Context(), MessagesKey, msgs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetMessages(ctx context.Context) i18n.Messages {
	if msgs, ok := ctx.Value(MessagesKey).(i18n.Messages); ok {
		return msgs
	}
	return i18n.EN
}
