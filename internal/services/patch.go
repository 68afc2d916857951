package services

import (
	"bytes"
	"context"
	"database/sql"
	"slices"

	"github.com/goccy/go-json"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/utils"
)

// Invalidator drops cached reads of a resource type after a write.
type Invalidator interface {
	Invalidate(resourceType string) error
}

// Patch is a decoded request body. Only keys present in it are applied.
type Patch map[string]json.RawMessage

// DecodePatch reads a JSON object body.
func DecodePatch(body []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(body, &p); err != nil || p == nil {
		return nil, domain.BadRequestError{Msg: "Invalid JSON payload"}
	}
	return p, nil
}

// apply copies the allowed keys of p onto dst.
func (p Patch) apply(dst any, allowed ...string) error {
	picked := make(map[string]json.RawMessage, len(p))
	for key, raw := range p {
		if slices.Contains(allowed, key) {
			picked[key] = raw
		}
	}
	if len(picked) == 0 {
		return nil
	}
	data, err := json.Marshal(picked)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return domain.BadRequestError{Msg: "Invalid JSON payload"}
	}
	return nil
}

// applyTime sets dst from an ATOM timestamp or date string under key; null clears it.
func (p Patch) applyTime(dst *sql.NullTime, key string) error {
	raw, ok := p[key]
	if !ok {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*dst = sql.NullTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.ValidationError{Field: key, Msg: "must be a date"}
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return domain.ValidationError{Field: key, Msg: "must be a date"}
	}
	*dst = sql.NullTime{Time: t.UTC(), Valid: true}
	return nil
}

func invalidate(ctx context.Context, cache Invalidator, resourceType string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(resourceType); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("resource", resourceType).Msg("cache invalidation failed")
	}
}
