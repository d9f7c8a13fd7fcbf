package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testSecret    = "gfdmhghif38yrf9ew0jkf32"
	testTxID      = "5eae174f-7cd0-472c-bd36-35660f00132b"
	testSignature = "7b47e41efe564a062029da3367bde8844bea0fb049f894687cee5d57f2858bc8"
)

func TestSign(t *testing.T) {
	assert.Equal(t, testSignature, Sign(testTxID, 1, 1, 100, testSecret))
	assert.Equal(t, testSignature, New(testSecret).Sign(testTxID, 1, 1, 100))
	assert.Equal(t, Sign("tx1", 1, 1, 100, "s"), Sign("tx1", 1, 1, 100, "s"))
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name      string
		txID      string
		accountID int
		userID    int
		amount    int64
		secret    string
		provided  string
		expected  bool
	}{
		{
			name:      "Valid signature",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  testSignature,
			expected:  true,
		},
		{
			name:      "Uppercase signature is rejected",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  strings.ToUpper(testSignature),
			expected:  false,
		},
		{
			name:      "Tampered transaction id",
			txID:      testTxID[:len(testTxID)-1] + "c",
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  testSignature,
			expected:  false,
		},
		{
			name:      "Tampered account id",
			txID:      testTxID,
			accountID: 2,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  testSignature,
			expected:  false,
		},
		{
			name:      "Tampered user id",
			txID:      testTxID,
			accountID: 1,
			userID:    2,
			amount:    100,
			secret:    testSecret,
			provided:  testSignature,
			expected:  false,
		},
		{
			name:      "Tampered amount",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    1000,
			secret:    testSecret,
			provided:  testSignature,
			expected:  false,
		},
		{
			name:      "Wrong secret",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret + "x",
			provided:  testSignature,
			expected:  false,
		},
		{
			name:      "Empty signature",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  "",
			expected:  false,
		},
		{
			name:      "Truncated signature",
			txID:      testTxID,
			accountID: 1,
			userID:    1,
			amount:    100,
			secret:    testSecret,
			provided:  testSignature[:63],
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Verify(tt.txID, tt.accountID, tt.userID, tt.amount, tt.secret, tt.provided))
		})
	}
}

func TestVerifySingleCharacterFlip(t *testing.T) {
	v := New(testSecret)
	for i := range testSignature {
		flipped := []byte(testSignature)
		if flipped[i] == '0' {
			flipped[i] = '1'
		} else {
			flipped[i] = '0'
		}
		assert.False(t, v.Verify(testTxID, 1, 1, 100, string(flipped)), "position %d", i)
	}
	assert.True(t, v.Verify(testTxID, 1, 1, 100, testSignature))
}
