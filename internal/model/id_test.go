package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArticleID_IsRandomV4(t *testing.T) {
	a := NewArticleID()
	b := NewArticleID()

	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
	assert.Equal(t, uuid.Version(4), uuid.MustParse(a.String()).Version())
}

func TestParseArticleID_NormalizesValidForms(t *testing.T) {
	canonical := "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
	inputs := []string{
		canonical,
		strings.ToUpper(canonical),
		"3f2504e04f8941d39a0c0305e82c3301",
		"urn:uuid:" + canonical,
		"{" + canonical + "}",
	}

	for _, in := range inputs {
		id, err := ParseArticleID(in)
		require.NoError(t, err, in)
		assert.Equal(t, canonical, id.String(), in)
	}
}

func TestParseArticleID_RoundTripsGeneratedIDs(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := NewArticleID()
		parsed, err := ParseArticleID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParseArticleID_RejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "not-a-uuid", "1234", "3f2504e0-4f89-41d3-9a0c-0305e82c330", "zz2504e0-4f89-41d3-9a0c-0305e82c3301"} {
		_, err := ParseArticleID(in)
		assert.ErrorIs(t, err, ErrInvalidID, in)
	}
}

func TestArticleID_UsableAsMapKey(t *testing.T) {
	id := NewArticleID()
	again, err := ParseArticleID(id.String())
	require.NoError(t, err)

	m := map[ArticleID]string{id: "first"}
	assert.Equal(t, "first", m[again])
}

func TestArticleID_JSON(t *testing.T) {
	id := NewArticleID()

	data, err := json.Marshal(struct {
		ID ArticleID `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(data))

	var decoded struct {
		ID ArticleID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)

	err = json.Unmarshal([]byte(`{"id":"bogus"}`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidID)
}
