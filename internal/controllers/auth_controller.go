package controllers

import (
	"errors"
	"net/http"

	"github.com/biyonik/cinema-ticket-service/internal/http/request"
	"github.com/biyonik/cinema-ticket-service/internal/http/response"
	"github.com/biyonik/cinema-ticket-service/pkg/auth"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
	v "github.com/biyonik/cinema-ticket-service/pkg/validation"
	"github.com/biyonik/cinema-ticket-service/pkg/validation/types"
)

type AuthController struct {
	issuer TokenIssuer
	logger *logger.Logger
}

func NewAuthController(issuer TokenIssuer, log *logger.Logger) *AuthController {
	return &AuthController{issuer: issuer, logger: log}
}

var tokenSchema = v.Make().Shape(map[string]v.Type{
	"client_id":     types.String().Trim().Required().Max(128).Label("client_id"),
	"client_secret": types.String().Required().Max(256).Label("client_secret"),
})

// Token handles POST /api/auth/token.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	req := request.New(r)

	var body map[string]interface{}
	if err := req.ParseJSON(&body); err != nil {
		response.InvalidJSON(w)
		return
	}

	result := tokenSchema.Validate(body)
	if result.HasErrors() {
		response.ValidationError(w, result.Errors())
		return
	}

	data := result.ValidData()
	clientID := data["client_id"].(string)
	secret := data["client_secret"].(string)

	token, expiresAt, err := c.issuer.Authenticate(clientID, secret)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.logger.Warn("Client authentication failed", "client_id", clientID, "ip", req.GetIP())
			response.Unauthorized(w, "Invalid client credentials")
			return
		}
		c.logger.Error("Token generation failed", "client_id", clientID, "error", err)
		response.ServerError(w, "")
		return
	}

	c.logger.Info("Token issued", "client_id", clientID)
	response.Success(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt.UTC(),
	}, nil)
}
