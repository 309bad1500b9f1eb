package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "too short",
			address:    "0x000",
			expIsValid: false,
		},
		{
			desc:       "checksummed",
			address:    "0x939ae6A4C8dfDBB1f7085189574F0A938013952A",
			expIsValid: true,
		},
		{
			desc:       "lower case",
			address:    "0x939ae6a4c8dfdbb1f7085189574f0a938013952b",
			expIsValid: true,
		},
		{
			desc:       "not hex",
			address:    "0xzz9ae6a4c8dfdbb1f7085189574f0a938013952b",
			expIsValid: false,
		},
	}
	for _, t2 := range tests {
		assert.Equal(t, t2.expIsValid, IsValidAddress(t2.address), t2.desc)
	}
}
