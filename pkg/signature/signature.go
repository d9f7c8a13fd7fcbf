// Package signature signs and verifies payment notifications.
//
// The signed message is the concatenation, without separators, of the
// account id, amount, transaction id and user id in that order, followed by
// the shared secret. The signature is the lowercase hex SHA-256 of it.
package signature

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
)

type Verifier struct {
	secret string
}

func New(secret string) *Verifier {
	return &Verifier{secret: secret}
}

func (v *Verifier) Sign(transactionID string, accountID, userID int, amount int64) string {
	return Sign(transactionID, accountID, userID, amount, v.secret)
}

func (v *Verifier) Verify(transactionID string, accountID, userID int, amount int64, provided string) bool {
	return Verify(transactionID, accountID, userID, amount, v.secret, provided)
}

func Sign(transactionID string, accountID, userID int, amount int64, secret string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(accountID))
	b.WriteString(strconv.FormatInt(amount, 10))
	b.WriteString(transactionID)
	b.WriteString(strconv.Itoa(userID))
	b.WriteString(secret)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether provided is exactly the expected signature.
// Case and encoding differences count as a mismatch.
func Verify(transactionID string, accountID, userID int, amount int64, secret, provided string) bool {
	expected := Sign(transactionID, accountID, userID, amount, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
