// Package validation checks create payloads against configurable rules.
//
// The defaults are deliberately permissive to match the historical
// contract: past unlock dates, out-of-range coordinates, and empty titles
// are all accepted. Strict mode is an explicit, separately tested
// extension enabled via configuration. Content tree caps (depth, part
// count, bytes) are always enforced; unbounded multipart nesting is a
// hardening concern, not a behavior choice.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"capsuledb/pkg/models"
)

type Rules struct {
	// Always enforced. Zero means "use default".
	MaxContentDepth int
	MaxContentParts int
	MaxContentBytes int64

	// Strict enables unlock-date, coordinate-range, and non-empty
	// text/title checks.
	Strict bool
}

const (
	defaultMaxDepth = 32
	defaultMaxParts = 256
	defaultMaxBytes = 1 << 20
)

var (
	mu    sync.RWMutex
	rules = Rules{}
)

// SetRules installs the active rule set (called during startup and tests).
func SetRules(r Rules) {
	mu.Lock()
	defer mu.Unlock()
	rules = r
}

func active() Rules {
	mu.RLock()
	defer mu.RUnlock()
	r := rules
	if r.MaxContentDepth <= 0 {
		r.MaxContentDepth = defaultMaxDepth
	}
	if r.MaxContentParts <= 0 {
		r.MaxContentParts = defaultMaxParts
	}
	if r.MaxContentBytes <= 0 {
		r.MaxContentBytes = defaultMaxBytes
	}
	return r
}

// ValidatePayload checks a create payload. now is the creation timestamp
// in UTC nanoseconds, used only by strict mode.
func ValidatePayload(p models.CreateCapsulePayload, now uint64) error {
	r := active()
	var errs []string

	if err := p.Content.CheckType(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := p.AccessControl.CheckType(); err != nil {
		errs = append(errs, err.Error())
	}
	if d := p.Content.Depth(); d > r.MaxContentDepth {
		errs = append(errs, fmt.Sprintf("content nesting too deep: %d > %d", d, r.MaxContentDepth))
	}
	if n := p.Content.PartCount(); n > r.MaxContentParts {
		errs = append(errs, fmt.Sprintf("too many content parts: %d > %d", n, r.MaxContentParts))
	}
	if b := p.Content.ByteSize(); b > r.MaxContentBytes {
		errs = append(errs, fmt.Sprintf("content too large: %d > %d bytes", b, r.MaxContentBytes))
	}

	if r.Strict {
		if p.UnlockDate <= now {
			errs = append(errs, "unlock date must be in the future")
		}
		if p.Content.Type == models.ContentText && p.Content.Text == "" {
			errs = append(errs, "text content cannot be empty")
		}
		if p.Metadata.Title == "" {
			errs = append(errs, "title is required")
		}
		if loc := p.Metadata.Location; loc != nil {
			if loc.Latitude < -90 || loc.Latitude > 90 {
				errs = append(errs, fmt.Sprintf("latitude out of range: %v", loc.Latitude))
			}
			if loc.Longitude < -180 || loc.Longitude > 180 {
				errs = append(errs, fmt.Sprintf("longitude out of range: %v", loc.Longitude))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
