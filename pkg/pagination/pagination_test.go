package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor("CKT1792227600000")
	require.NotEmpty(t, cursor)

	id, err := ParseCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, "CKT1792227600000", id)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	id, err := ParseCursor("")
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = ParseCursor("%%%")
	assert.Error(t, err)

	_, err = ParseCursor("Q0tUMQ")
	assert.Error(t, err, "missing prefix")

	assert.Empty(t, EncodeCursor("  "))
}
