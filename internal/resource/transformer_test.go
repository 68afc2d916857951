package resource

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransformer(store *memStore) *Transformer {
	return &Transformer{
		BaseURL:  "https://api.example.com",
		Resolver: NewRetriever(store, nil, time.Minute),
	}
}

func TestTransform_ItemKeepsAttributeOrder(t *testing.T) {
	store := newMemStore()
	rec := store.records["songs"][0]

	doc, err := newTransformer(store).Transform(context.Background(), songs, Item, []Record{rec}, QueryIntent{})
	require.NoError(t, err)

	res, ok := doc.Data.(Resource)
	require.True(t, ok)
	assert.Equal(t, "songs", res.Type)
	assert.Equal(t, songA, res.ID)
	assert.Equal(t, []string{"album_id", "name", "created_at", "updated_at"}, res.Attributes.Names())
	assert.Equal(t, "https://api.example.com/songs/"+songA, res.Links.Self)
	assert.Empty(t, doc.Included)

	createdAt, _ := res.Attributes.Get(CreatedAt)
	assert.Equal(t, "2020-03-14T15:09:26+01:00", createdAt)
	updatedAt, _ := res.Attributes.Get(UpdatedAt)
	assert.Equal(t, "", updatedAt)

	body, err := json.Marshal(res.Attributes)
	require.NoError(t, err)
	assert.Equal(t, `{"album_id":"`+albumX+`","name":"Intro","created_at":"2020-03-14T15:09:26+01:00","updated_at":""}`, string(body))
}

func TestTransform_FieldSelection(t *testing.T) {
	store := newMemStore()
	intent := QueryIntent{Fields: map[string][]string{"songs": {"name"}}}

	doc, err := newTransformer(store).Transform(context.Background(), songs, Collection, store.records["songs"], intent)
	require.NoError(t, err)

	data := doc.Data.([]Resource)
	require.Len(t, data, 2)
	for _, res := range data {
		assert.Equal(t, []string{"name"}, res.Attributes.Names())
	}
}

func TestTransform_FieldSelectionKeepsRecordOrder(t *testing.T) {
	store := newMemStore()
	intent := QueryIntent{Fields: map[string][]string{"songs": {"created_at", "name"}}}

	doc, err := newTransformer(store).Transform(context.Background(), songs, Item, store.records["songs"][:1], intent)
	require.NoError(t, err)

	res := doc.Data.(Resource)
	assert.Equal(t, []string{"name", "created_at"}, res.Attributes.Names())

	body, err := json.Marshal(res.Attributes)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Intro","created_at":"2020-03-14T15:09:26+01:00"}`, string(body))
}

func TestTransform_IncludesAreDeduplicated(t *testing.T) {
	store := newMemStore()
	intent := QueryIntent{Includes: []string{"album"}}

	doc, err := newTransformer(store).Transform(context.Background(), songs, Collection, store.records["songs"], intent)
	require.NoError(t, err)

	data := doc.Data.([]Resource)
	require.Len(t, data, 2)
	require.Len(t, doc.Included, 1)
	assert.Equal(t, "albums", doc.Included[0].Type)
	assert.Equal(t, albumX, doc.Included[0].ID)

	rel := data[0].Relationships["album"]
	assert.Equal(t, Identifier{Type: "albums", ID: albumX}, rel.Data)
	assert.Equal(t, "https://api.example.com/songs/"+songA+"/relationships/album", rel.Links.Self)
	assert.Equal(t, "https://api.example.com/songs/"+songA+"/album", rel.Links.Related)
}

func TestTransform_ToManyInclude(t *testing.T) {
	store := newMemStore()
	intent := QueryIntent{Includes: []string{"songs"}}

	doc, err := newTransformer(store).Transform(context.Background(), albums, Item, store.records["albums"], intent)
	require.NoError(t, err)

	res := doc.Data.(Resource)
	assert.ElementsMatch(t,
		[]Identifier{{Type: "songs", ID: songA}, {Type: "songs", ID: songB}},
		res.Relationships["songs"].Data)
	assert.Len(t, doc.Included, 2)
}

func TestTransform_EmptyToOneKeyIsNull(t *testing.T) {
	store := newMemStore()
	orphan := song{ID: songA, Name: "Loose", CreatedAt: created}

	doc, err := newTransformer(store).Transform(context.Background(), songs, Item, []Record{orphan},
		QueryIntent{Includes: []string{"album"}})
	require.NoError(t, err)

	res := doc.Data.(Resource)
	assert.Nil(t, res.Relationships["album"].Data)
	assert.Empty(t, doc.Included)
}

func TestTransform_BrokenRelation(t *testing.T) {
	store := newMemStore()
	dangling := song{ID: songA, AlbumID: "00000000-0000-0000-0000-000000000000", CreatedAt: created}

	_, err := newTransformer(store).Transform(context.Background(), songs, Item, []Record{dangling},
		QueryIntent{Includes: []string{"album"}})
	require.ErrorIs(t, err, ErrBrokenRelation)
}

func TestTransform_ItemCardinality(t *testing.T) {
	store := newMemStore()
	tr := newTransformer(store)

	_, err := tr.Transform(context.Background(), songs, Item, store.records["songs"], QueryIntent{})
	require.ErrorIs(t, err, ErrCardinality)

	_, err = tr.Transform(context.Background(), songs, Item, nil, QueryIntent{})
	require.ErrorIs(t, err, ErrCardinality)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2021, 12, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2021-12-01T08:00:00+00:00", FormatTimestamp(ts))
	assert.Equal(t, "2021-12-01T08:00:00+00:00", FormatTimestamp(&ts))
	assert.Equal(t, "2021-12-01T08:00:00+00:00", FormatTimestamp(sql.NullTime{Time: ts, Valid: true}))
	assert.Equal(t, "", FormatTimestamp(sql.NullTime{}))
	assert.Equal(t, "", FormatTimestamp(nil))
	assert.Equal(t, "", FormatTimestamp(time.Time{}))
}
