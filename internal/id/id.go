// Package id assigns the 17-character [0-9A-Z] tokens used as ledger row
// identifiers. Tokens are opaque dedup aids, not content hashes; the
// deterministic scheme exists so re-ingesting the same file can be made
// provably idempotent.
package id

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"strconv"

	"github.com/bankfold/bankfold/internal/model"
)

// Length is the token length.
const Length = 17

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Scheme selects how tokens are produced.
type Scheme string

const (
	// SchemeRandom generates an independent token per row.
	SchemeRandom Scheme = "random"
	// SchemeDeterministic derives the token from row content plus a
	// per-batch occurrence index, so re-ingestion reproduces the same IDs.
	SchemeDeterministic Scheme = "deterministic"
)

// New returns a random 17-char token.
func New() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Derive returns the deterministic token for a transaction. occurrence
// disambiguates identical rows within one batch (0 for the first).
func Derive(t model.Transaction, occurrence int) string {
	h := sha256.New()
	h.Write([]byte(string(t.Bank)))
	h.Write([]byte{0})
	h.Write([]byte(t.Date.Format("2006-01-02")))
	h.Write([]byte{0})
	h.Write([]byte(t.Description))
	h.Write([]byte{0})
	h.Write([]byte(t.Amount.StringFixed(2)))
	h.Write([]byte{0})
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(t.Card))
	binary.BigEndian.PutUint32(buf[4:], uint32(occurrence))
	h.Write(buf[:])

	sum := h.Sum(nil)
	out := make([]byte, Length)
	for i := range out {
		out[i] = alphabet[int(sum[i])%len(alphabet)]
	}
	return string(out)
}

// Assign stamps an ID on every transaction that lacks one. Rows that
// already carry an ID (e.g. statement reference numbers) keep it.
func Assign(txns []model.Transaction, scheme Scheme) {
	seen := make(map[string]int)
	for i := range txns {
		if txns[i].ID != "" {
			continue
		}
		switch scheme {
		case SchemeDeterministic:
			key := occurrenceKey(txns[i])
			txns[i].ID = Derive(txns[i], seen[key])
			seen[key]++
		default:
			txns[i].ID = New()
		}
	}
}

// occurrenceKey matches Derive's identity content, so identical rows in
// one batch count up a shared occurrence index.
func occurrenceKey(t model.Transaction) string {
	return string(t.Bank) + "\x00" + t.Key() + "\x00" + t.Amount.StringFixed(2) + "\x00" + strconv.Itoa(t.Card)
}

// Valid reports whether s has the expected token shape.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
