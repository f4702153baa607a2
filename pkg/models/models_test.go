package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDCanonicalization(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want FlexID
	}{
		{"string", `"42"`, "42"},
		{"integer", `42`, "42"},
		{"integral float", `42.0`, "42"},
		{"integral exponent", `4.2e1`, "42"},
		{"negative integral float", `-7.0`, "-7"},
		{"fractional float stays as sent", `42.5`, "42.5"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got FlexID
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

// One client id sent as a number on one booking and as a string on another
// must decode to the same canonical id.
func TestFlexIDNumberAndStringCoalesce(t *testing.T) {
	var bookings []Booking
	payload := `[
		{"id": "b1", "clientId": 42.0},
		{"id": "b2", "clientId": "42"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &bookings))
	require.Len(t, bookings, 2)
	assert.Equal(t, bookings[0].ClientID, bookings[1].ClientID)
	assert.Equal(t, FlexID("42"), bookings[0].ClientID)
}
