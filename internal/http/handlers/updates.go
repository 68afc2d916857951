package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/http/middleware"
	"discoveryfy/internal/resource"
	"discoveryfy/internal/services"
)

// UpdateFunc applies a patch to record id on behalf of caller.
type UpdateFunc[T resource.Record] func(ctx context.Context, caller domain.RequestContext, id string, patch services.Patch) (T, error)

// Update serves PUT /<type>/:id and answers with the updated record.
func Update[T resource.Record](d resource.Descriptor, t *resource.Transformer, apply UpdateFunc[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resource.ParseID(c.Param("id"))
		if err != nil {
			respond(c, resource.Error(http.StatusBadRequest, "Invalid uuid"))
			return
		}
		patch, err := readPatch(c)
		if err != nil {
			RespondDomainError(c, err)
			return
		}

		rec, err := apply(c.Request.Context(), middleware.Caller(c), id, patch)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		doc, err := t.Transform(c.Request.Context(), d, resource.Item, []resource.Record{rec}, resource.QueryIntent{})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, resource.Success(http.StatusOK, doc))
	}
}
