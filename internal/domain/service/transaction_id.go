package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
)

const (
	minTransactionIDLength = 12
	maxTransactionIDLength = 20
	minDistinctChars       = 6
	maxIdenticalRun        = 3
	minSequentialDigits    = 6
)

var placeholderPrefixes = []string{"TEST", "FAKE", "DUMMY", "SAMPLE", "EXAMPLE"}

// NormalizeTransactionID upper-cases and trims a claimed bank reference.
func NormalizeTransactionID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateTransactionID checks that a claimed bank transaction id looks like a
// plausible UPI reference and returns it normalized.
//
// This is a best-effort filter against typos and obviously made up values.
// It proves nothing about the payment; only the bank oracle does.
func ValidateTransactionID(raw string) (string, error) {
	id := NormalizeTransactionID(raw)

	if n := len(id); n < minTransactionIDLength || n > maxTransactionIDLength {
		return "", invalidFormat("transaction id must be 12 to 20 characters long")
	}

	var hasLetter, hasDigit bool
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			return "", invalidFormat("transaction id may only contain letters and digits")
		}
	}

	if strings.Count(id, id[:1]) == len(id) {
		return "", invalidFormat("transaction id repeats a single character")
	}
	if !hasLetter || !hasDigit {
		return "", invalidFormat("transaction id must contain both letters and digits")
	}
	if hasSequentialDigits(id, minSequentialDigits) {
		return "", invalidFormat("transaction id contains a sequential digit run")
	}
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(id, prefix) {
			return "", invalidFormat("transaction id looks like a placeholder value")
		}
	}
	if strings.HasPrefix(id, entity.TransactionRefPrefix) {
		return "", invalidFormat("transaction reference cannot be used as a bank transaction id")
	}
	if distinctChars(id) < minDistinctChars {
		return "", invalidFormat("transaction id has too few distinct characters")
	}
	if longestRun(id) > maxIdenticalRun {
		return "", invalidFormat("transaction id repeats a character too many times in a row")
	}

	return id, nil
}

func invalidFormat(msg string) error {
	return domainErrors.NewVerificationError(domainErrors.ReasonInvalidFormat, msg, nil)
}

// hasSequentialDigits reports an ascending or descending run of at least n
// consecutive digits, such as 123456 or 987654.
func hasSequentialDigits(s string, n int) bool {
	asc, desc := 1, 1
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if !isDigit(prev) || !isDigit(cur) {
			asc, desc = 1, 1
			continue
		}
		if cur == prev+1 {
			asc++
		} else {
			asc = 1
		}
		if cur+1 == prev {
			desc++
		} else {
			desc = 1
		}
		if asc >= n || desc >= n {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func distinctChars(s string) int {
	seen := make(map[byte]struct{}, len(s))
	for i := 0; i < len(s); i++ {
		seen[s[i]] = struct{}{}
	}
	return len(seen)
}

func longestRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if i > 0 && s[i] == s[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// NewTransactionRef returns a fresh engine reference: the PAYREF prefix and
// twelve upper-case hex characters.
func NewTransactionRef() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return entity.TransactionRefPrefix + strings.ToUpper(hex[:12])
}
