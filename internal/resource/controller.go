package resource

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"discoveryfy/internal/logging"
)

// Request carries the per-request inputs of a resource endpoint.
type Request struct {
	// ID is the raw path identifier; empty for unscoped collections.
	ID    string
	Query url.Values
	// Scope adds route-level equality predicates.
	Scope Filter
	// Parent, when set, restricts the collection to children of an existing record.
	Parent Parent
}

// Parent names the record a nested collection hangs off. Key is the column on
// the child type that references the parent id.
type Parent struct {
	Type string
	ID   string
	Key  string
}

// Controller runs the read pipeline for one endpoint:
// parse, validate sort, retrieve, check cardinality, transform, build envelope.
// Every failure ends the pipeline with an error envelope.
type Controller struct {
	Descriptor  Descriptor
	Retriever   *Retriever
	Transformer *Transformer
	TTL         time.Duration
}

// NewController builds a controller for d.
func NewController(d Descriptor, r *Retriever, t *Transformer, ttl time.Duration) *Controller {
	return &Controller{Descriptor: d, Retriever: r, Transformer: t, TTL: ttl}
}

// Handle executes the pipeline. It never returns a Go error: every outcome is
// a well-formed Response.
func (c *Controller) Handle(ctx context.Context, req Request) Response {
	d := c.Descriptor
	log := logging.Ctx(ctx).With().Str("resource", d.Type).Logger()

	var id string
	if req.ID != "" {
		parsed, err := ParseID(req.ID)
		if err != nil {
			return Error(http.StatusBadRequest, "Invalid uuid")
		}
		id = parsed
	}
	var parentID string
	if req.Parent.Type != "" {
		parsed, err := ParseID(req.Parent.ID)
		if err != nil {
			return Error(http.StatusBadRequest, "Invalid uuid")
		}
		parentID = parsed
	}

	intent, err := Parse(req.Query, d)
	if err != nil {
		log.Debug().Err(err).Msg("rejected sort")
		return Error(http.StatusBadRequest, "")
	}

	sort := intent.SortDirective()
	if sort == "" {
		sort = d.DefaultSort
	}

	filter := append(append(Filter{}, d.Scope...), req.Scope...)
	if parentID != "" {
		parents, err := c.Retriever.Fetch(ctx, Query{Type: req.Parent.Type, ID: parentID, TTL: c.TTL})
		if err != nil {
			log.Error().Err(err).Str("parent", req.Parent.Type).Msg("retrieve parent failed")
			return Error(http.StatusInternalServerError, "")
		}
		if len(parents) == 0 {
			return Error(http.StatusNotFound, "")
		}
		filter = filter.With(req.Parent.Key, parentID)
	}
	records, err := c.Retriever.Fetch(ctx, Query{Type: d.Type, ID: id, Filter: filter, Sort: sort, TTL: c.TTL})
	if err != nil {
		log.Error().Err(err).Msg("retrieve failed")
		return Error(http.StatusInternalServerError, "")
	}

	if id != "" && len(records) == 0 {
		return Error(http.StatusNotFound, "")
	}
	if d.Mode == Item && len(records) != 1 {
		log.Error().Str("id", id).Int("count", len(records)).Msg("item endpoint cardinality violation")
		return Error(http.StatusInternalServerError, "")
	}

	doc, err := c.Transformer.Transform(ctx, d, d.Mode, records, intent)
	if err != nil {
		if errors.Is(err, ErrBrokenRelation) {
			log.Error().Err(err).Msg("relationship integrity failure")
		} else {
			log.Error().Err(err).Msg("transform failed")
		}
		return Error(http.StatusInternalServerError, "")
	}

	return Success(http.StatusOK, doc)
}
