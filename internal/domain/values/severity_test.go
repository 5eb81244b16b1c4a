package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewAllergySeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AllergySeverity
		wantErr bool
	}{
		{"mild", "mild", SevMild, false},
		{"moderate", "moderate", SevModerate, false},
		{"severe", "severe", SevSevere, false},
		{"anaphylaxis", "anaphylaxis", SevAnaphylaxis, false},
		{"uppercase", "SEVERE", SevSevere, false},
		{"whitespace", "  mild ", SevMild, false},
		{"empty", "", SevUnknown, false},
		{"invalid", "deadly", AllergySeverity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sev, err := NewAllergySeverity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, sev.Equals(tt.want))
		})
	}
}

func Test_AllergySeverity_Ordering(t *testing.T) {
	ordered := []AllergySeverity{SevUnknown, SevMild, SevModerate, SevSevere, SevAnaphylaxis}
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i].IsHigherThan(ordered[i-1]), "%s > %s", ordered[i], ordered[i-1])
		assert.False(t, ordered[i-1].IsHigherThan(ordered[i]))
	}
	assert.False(t, SevUnknown.IsKnown())
	assert.True(t, SevMild.IsKnown())
}

func Test_AllergySeverity_JSON(t *testing.T) {
	data, err := json.Marshal(SevAnaphylaxis)
	require.NoError(t, err)
	assert.Equal(t, `"anaphylaxis"`, string(data))

	var decoded AllergySeverity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(SevAnaphylaxis))

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &decoded))
}

func Test_AllergySeverity_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected AllergySeverity
		wantErr  bool
	}{
		{"string", "moderate", SevModerate, false},
		{"bytes", []byte("severe"), SevSevere, false},
		{"nil", nil, SevUnknown, false},
		{"invalid type", 123, AllergySeverity{}, true},
		{"invalid value", "invalid", AllergySeverity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sev AllergySeverity
			err := sev.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, sev.Equals(tt.expected))
		})
	}
}
