package handlers

import (
	"github.com/gin-gonic/gin"

	"discoveryfy/internal/resource"
)

// Read serves a resource endpoint. On item routes the ":id" parameter names the record.
func Read(ctrl *resource.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, ctrl.Handle(c.Request.Context(), resource.Request{
			ID:    c.Param("id"),
			Query: c.Request.URL.Query(),
		}))
	}
}

// ReadRelated serves the collection of records whose key column references
// the parentType record named by ":id". An unknown parent is a 404.
func ReadRelated(ctrl *resource.Controller, parentType, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, ctrl.Handle(c.Request.Context(), resource.Request{
			Query:  c.Request.URL.Query(),
			Parent: resource.Parent{Type: parentType, ID: c.Param("id"), Key: key},
		}))
	}
}
