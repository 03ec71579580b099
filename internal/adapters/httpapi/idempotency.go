package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

func hashCanonical(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// idempotent runs create under the Idempotency-Key protocol:
//   - no key: create runs unconditionally
//   - same member+key+route+bodyHash: the stored 201 is replayed
//   - same member+key+route with a different bodyHash: 409 IDEMPOTENCY_KEY_REUSE
//
// create returns the response payload or an error for writeAppError.
func (s *Server) idempotent(
	w http.ResponseWriter,
	r *http.Request,
	memberID domain.MemberID,
	route string,
	canonicalBody any,
	create func() (any, error),
) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" || s.Idem == nil {
		payload, err := create()
		if err != nil {
			writeAppError(w, r, s.log, err)
			return
		}
		writeJSON(w, http.StatusCreated, payload)
		return
	}

	bodyHash, err := hashCanonical(canonicalBody)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	metaFP := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		MemberID: memberID,
		Method:   r.Method,
		Route:    route,
		BodyHash: "",
	}
	if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
		writeAppError(w, r, s.log, err)
		return
	} else if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return
		}
	} else {
		_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
			StatusCode:  0,
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   s.clk.Now(),
		})
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
		writeAppError(w, r, s.log, err)
		return
	} else if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return
	}

	payload, err := create()
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	b = append(b, '\n')
	if err := s.Idem.Put(ctx, respFP, idempotency.Record{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   s.clk.Now(),
	}); err != nil {
		s.log.WarnContext(ctx, "idempotency record not stored", "route", route, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(b)
}
