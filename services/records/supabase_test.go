package recordsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyflow/core"
)

func TestFilterValues(t *testing.T) {
	got := filterValues([]interface{}{4, "5", float64(6), map[string]interface{}{"Id": float64(7), "Name": "Physics"}})
	assert.Equal(t, []string{"4", "5", "6", "7"}, got)
}

func TestPatchDocument(t *testing.T) {
	patch := core.Record{"Id": 3, "name_c": "Math", "current_grade_c": nil}
	assert.Equal(t, core.Record{"name_c": "Math", "current_grade_c": nil}, patchDocument(patch))
	assert.Contains(t, patch, "Id")
}

func TestDecodeRows(t *testing.T) {
	rows, err := decodeRows([]byte(`[{"Id": 1, "name_c": "Math"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ID())

	_, err = decodeRows([]byte(`{"message": "oops"}`))
	assert.Error(t, err)
}

func TestNewSupabaseClient(t *testing.T) {
	client, err := NewSupabaseClient("https://project.supabase.co", "anon-key")
	require.NoError(t, err)
	assert.NotNil(t, client.client)
}
