// Package dedup computes content hashes for canonical records and decides,
// against a per-account registry of persisted occurrence counts, whether a
// record is NEW or a DUPLICATE of an earlier import.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"amunoz/movimientos/internal/models"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// hashNormalize canonicalizes a description for hashing only: uppercase,
// runs of whitespace collapsed, trimmed. This normalization is independent
// of the classifier's prefix stripping so that hash identity never shifts
// when boilerplate rules change.
func hashNormalize(description string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToUpper(description), " "))
}

// Fingerprint is the positionless content digest of a record: calendar day,
// amount rounded to cents, hash-normalized description and account. Records
// that are genuine repeats of each other share a fingerprint.
func Fingerprint(tx models.Transaction) string {
	parts := []string{
		tx.Date.Format(models.DateLayout),
		tx.Amount.Round(2).StringFixed(2),
		hashNormalize(tx.Description),
		tx.Account,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// HashFile computes and assigns the persisted content hash for every record
// of one file, in file order. The hash appends the record's within-file
// occurrence ordinal to its fingerprint, so five identical purchases on the
// same day get five distinct hashes while a re-import reproduces them
// exactly. Call once per parsed file, before deduplication.
func HashFile(records []models.Transaction) {
	ordinals := make(map[string]int, len(records))
	for i := range records {
		base := Fingerprint(records[i])
		ordinals[base]++
		sum := sha256.Sum256([]byte(base + "#" + strconv.Itoa(ordinals[base])))
		records[i].Hash = hex.EncodeToString(sum[:])
	}
}
