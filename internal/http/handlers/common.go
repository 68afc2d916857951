package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/resource"
	"discoveryfy/internal/services"
)

const maxBodyBytes = 1 << 20

// respond writes a pipeline response as JSON.
func respond(c *gin.Context, resp resource.Response) {
	body, err := json.Marshal(resp.Body)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("encode response")
		resp = resource.Error(http.StatusInternalServerError, "")
		body, _ = json.Marshal(resp.Body)
	}
	c.Data(resp.Status, "application/json; charset=utf-8", body)
}

// readPatch decodes the request body as a key-presence patch.
func readPatch(c *gin.Context) (services.Patch, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.BadRequestError{Msg: "Invalid JSON payload"}
	}
	return services.DecodePatch(body)
}

// bindJSON decodes the request body into dst.
func bindJSON[T any](c *gin.Context, dst *T) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return domain.BadRequestError{Msg: "Invalid JSON payload"}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.BadRequestError{Msg: "Invalid JSON payload"}
	}
	return nil
}
