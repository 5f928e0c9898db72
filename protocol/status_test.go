package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageStatus_Ordering(t *testing.T) {
	ordered := []MessageStatus{
		StatusUnconfirmed,
		StatusFailed,
		StatusReadyToProve,
		StatusInChallengePeriod,
		StatusReadyForRelay,
		StatusRelayed,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank())
		assert.True(t, ordered[i].AtLeast(ordered[i-1]))
		assert.False(t, ordered[i-1].AtLeast(ordered[i]))
	}
	assert.True(t, StatusRelayed.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusReadyForRelay.IsTerminal())
}

func TestParseMessageStatus(t *testing.T) {
	tests := []struct {
		in       string
		expected MessageStatus
		wantErr  bool
	}{
		{in: "READY_TO_PROVE", expected: StatusReadyToProve},
		{in: "ready-for-relay", expected: StatusReadyForRelay},
		{in: " relayed ", expected: StatusRelayed},
		{in: "in_challenge_period", expected: StatusInChallengePeriod},
		{in: "finalized", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			status, err := ParseMessageStatus(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, status)
			require.Equal(t, status, mustParse(t, status.String()))
		})
	}
}

func mustParse(t *testing.T, s string) MessageStatus {
	t.Helper()
	status, err := ParseMessageStatus(s)
	require.NoError(t, err)
	return status
}

func TestMessageStatus_StringUnknown(t *testing.T) {
	require.Equal(t, "MessageStatus(42)", MessageStatus(42).String())
}
