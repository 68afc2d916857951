package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/resource"
	"discoveryfy/internal/services"
	"discoveryfy/internal/utils"
)

// AuthHandler serves account creation and login.
type AuthHandler struct {
	Users       services.UserService
	Auth        services.AuthService
	Transformer *resource.Transformer
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /register
func (h AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(GetRequestID(c), "auth", "register", "username="+utils.TrimOrEmpty(in.Username))

	u, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	doc, err := h.Transformer.Transform(c.Request.Context(), models.UsersResource, resource.Item,
		[]resource.Record{u}, resource.QueryIntent{})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, resource.Success(http.StatusCreated, doc))
}

// POST /login. Email may hold a username.
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		RespondDomainError(c, err)
		return
	}
	login := utils.TrimOrEmpty(req.Email)
	if login == "" {
		login = utils.TrimOrEmpty(req.Username)
	}
	if login == "" || req.Password == "" {
		RespondDomainError(c, domain.ValidationErrors{{Msg: "Missing username or password"}})
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(GetRequestID(c), "auth", "login", "user_id="+session.UserID)

	respond(c, resource.Success(http.StatusOK, resource.Document{Data: resource.Resource{
		Type: "jwt",
		ID:   session.UserID,
		Attributes: resource.Attributes{
			{Name: "access_token", Value: session.Token},
			{Name: "token_type", Value: "Bearer"},
			{Name: "expires_at", Value: resource.FormatTimestamp(session.ExpiresAt)},
		},
		Links: resource.Links{Self: h.Transformer.BaseURL + "/" + models.Users + "/" + session.UserID},
	}}))
}
