package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// ResultStore caches completed PA forms keyed by request digest. A miss is
// (nil, nil) and is never an error; cache failures are absorbed by the
// service so the analysis still runs.
type ResultStore interface {
	Get(ctx context.Context, key string) (*PAForm, error)
	Save(ctx context.Context, key string, form *PAForm, ttl time.Duration) error
}

// RequestDigest derives the idempotency cache key for a request. Identical
// clinical payloads hash identically regardless of upload order metadata.
func RequestDigest(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.ProcedureCode))
	h.Write([]byte{0})
	h.Write([]byte(req.PatientID))
	h.Write([]byte{0})

	// Bundle JSON is deterministic for a given struct value.
	if payload, err := json.Marshal(req.Bundle); err == nil {
		h.Write(payload)
	}
	for _, doc := range req.Documents {
		h.Write([]byte{0})
		h.Write(doc.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
