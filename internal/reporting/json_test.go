package reporting

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, fullReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 71.0, decoded["total"])

	criteria, ok := decoded["criteria"].([]any)
	require.True(t, ok)
	require.Len(t, criteria, 8)
	first := criteria[0].(map[string]any)
	assert.Equal(t, "Salutation", first["criterion"])
	assert.Equal(t, "salutation", first["kind"])
}

func TestValidateReportJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "valid",
			data: `{"total": 4, "criteria": [{"criterion": "Salutation", "kind": "salutation", "score": 4, "max": 5, "feedback": "Good (Formal)"}]}`,
		},
		{
			name:    "total above 100",
			data:    `{"total": 101, "criteria": [{"criterion": "Salutation", "kind": "salutation", "score": 4, "max": 5, "feedback": ""}]}`,
			wantErr: "does not match schema",
		},
		{
			name:    "negative score",
			data:    `{"total": 0, "criteria": [{"criterion": "Flow", "kind": "flow", "score": -1, "max": 5, "feedback": ""}]}`,
			wantErr: "does not match schema",
		},
		{
			name:    "unknown kind",
			data:    `{"total": 0, "criteria": [{"criterion": "Volume", "kind": "volume", "score": 0, "max": 5, "feedback": ""}]}`,
			wantErr: "does not match schema",
		},
		{
			name:    "missing criteria",
			data:    `{"total": 0}`,
			wantErr: "does not match schema",
		},
		{
			name:    "not json",
			data:    `{`,
			wantErr: "not valid JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReportJSON([]byte(tt.data))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
