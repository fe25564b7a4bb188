// Package request wraps *http.Request with the helpers the controllers use.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/biyonik/cinema-ticket-service/pkg/auth"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

var (
	ErrEmptyBody = errors.New("request body is empty")
	ErrNotJSON   = errors.New("content type must be application/json")
)

type claimsKey struct{}

type Request struct {
	*http.Request
}

func New(r *http.Request) *Request {
	return &Request{Request: r}
}

// IsJSON reports whether the declared content type is JSON.
func (r *Request) IsJSON() bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func (r *Request) BearerToken() string {
	return auth.ExtractTokenFromHeader(r.Header.Get("Authorization"))
}

// ParseJSON decodes the body into dest. Numbers are kept as json.Number so
// that callers can tell 1234 from 1234.5 without float rounding. Trailing
// data after the first JSON value is rejected, as is a declared content type
// other than JSON. A missing Content-Type header is accepted.
func (r *Request) ParseJSON(dest interface{}) error {
	if r.Header.Get("Content-Type") != "" && !r.IsJSON() {
		return ErrNotJSON
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if len(body) > MaxBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// GetIP returns the client IP, honouring X-Forwarded-For and X-Real-IP.
func (r *Request) GetIP() string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithClaims stores the authenticated client on the context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Claims returns the authenticated client, if any.
func (r *Request) Claims() (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// ClientID returns the authenticated client id, or "".
func (r *Request) ClientID() string {
	if claims, ok := r.Claims(); ok {
		return claims.ClientID
	}
	return ""
}
