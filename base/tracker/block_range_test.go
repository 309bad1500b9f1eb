package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_blockRange_split(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		r         *blockRange
		expFirst  *blockRange
		expSecond *blockRange
	}{
		{
			r:         newBlockRange(1, 100),
			expFirst:  newBlockRange(1, 50),
			expSecond: newBlockRange(51, 100),
		},
		{
			r:         newBlockRange(1, 101),
			expFirst:  newBlockRange(1, 51),
			expSecond: newBlockRange(52, 101),
		},
		{
			r:         newBlockRange(3, 4),
			expFirst:  newBlockRange(3, 3),
			expSecond: newBlockRange(4, 4),
		},
		{
			r:         newBlockRange(2, 3),
			expFirst:  newBlockRange(2, 2),
			expSecond: newBlockRange(3, 3),
		},
	}
	for _, tt := range tests {
		first, second := tt.r.split()
		req.Equal(tt.expFirst, first, tt.r.String())
		req.Equal(tt.expSecond, second, tt.r.String())
	}
}
