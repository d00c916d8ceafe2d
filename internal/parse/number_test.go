package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomNumber(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedNumber
		expectErr bool
	}{
		{
			name:     "plain three digits",
			raw:      "203",
			expected: ParsedNumber{Floor: 2, Seq: 3},
		},
		{
			name:     "block prefix with dash",
			raw:      "A-203",
			expected: ParsedNumber{Block: "A", Floor: 2, Seq: 3},
		},
		{
			name:     "block prefix with space",
			raw:      "Wing B 1104",
			expected: ParsedNumber{Block: "Wing B", Floor: 11, Seq: 4},
		},
		{
			name:     "hash separator",
			raw:      "B#305",
			expected: ParsedNumber{Block: "B", Floor: 3, Seq: 5},
		},
		{
			name:     "short number is ground floor",
			raw:      "12",
			expected: ParsedNumber{Floor: 0, Seq: 12},
		},
		{
			name:      "no digits",
			raw:       "annex",
			expectErr: true,
		},
		{
			name:      "empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RoomNumber(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
