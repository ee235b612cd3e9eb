package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	// ContextKeyClient is the key for storing ClientInfo in request context.
	ContextKeyClient contextKey = "client"

	// HeaderUserID carries the caller's user identifier.
	HeaderUserID = "X-User-ID"

	AnonymousUser    = "anonymous"
	UnknownUserAgent = "unknown"
)

// ClientInfo identifies the caller of a request for activity logging.
// It is not an authentication mechanism.
type ClientInfo struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// ClientInfoMiddleware extracts ClientInfo from the request and stores it in
// the request context.
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := ClientInfo{
			UserID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
			IPAddress: clientIP(r.RemoteAddr),
			UserAgent: r.UserAgent(),
		}
		if info.UserID == "" {
			info.UserID = AnonymousUser
		}
		if info.UserAgent == "" {
			info.UserAgent = UnknownUserAgent
		}

		ctx := context.WithValue(r.Context(), ContextKeyClient, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientInfoFromContext returns the ClientInfo stored by ClientInfoMiddleware,
// or an anonymous one when the middleware did not run.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info, ok := ctx.Value(ContextKeyClient).(ClientInfo)
	if !ok {
		return ClientInfo{UserID: AnonymousUser, UserAgent: UnknownUserAgent}
	}
	return info
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
