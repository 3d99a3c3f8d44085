// Package models defines the canonical claim record shape and the boundary
// normalization that every record passes through when it enters the
// registry. Consumers downstream of the registry can assume status and
// claim type are always one of their canonical values.
package models

// ClaimRecord is the unit entity: one digitized land-rights claim.
//
// Invariants after Normalize:
//   - Status is one of the four workflow states
//   - ClaimType is one of the six canonical types
//   - Latitude/Longitude are either absent or finite
//
// The id is assigned by the store and immutable afterwards. Optional display
// strings stay nil when absent; "N/A" substitution is a presentation concern.
type ClaimRecord struct {
	ID        string            `json:"id"`
	Name      *string           `json:"name"`
	Village   *string           `json:"village"`
	District  *string           `json:"district"`
	State     *string           `json:"state"`
	ClaimType ClaimType         `json:"claim_type"`
	Status    ClaimStatus       `json:"status"`
	Latitude  NullFloat         `json:"latitude"`
	Longitude NullFloat         `json:"longitude"`
	RawText   *string           `json:"raw_text,omitempty"`
	Entities  map[string]string `json:"entities,omitempty"`
	CreatedAt NullTime          `json:"created_at"`
}

// Normalize coerces loosely typed store values into the canonical model.
// It runs once, where records enter the registry; consumers must not
// re-derive defaults.
func (c *ClaimRecord) Normalize() {
	c.ClaimType = ParseClaimType(string(c.ClaimType))
	c.Status = ParseStatus(string(c.Status))
	if c.Latitude.Valid && !c.Latitude.Finite() {
		c.Latitude = NullFloat{}
	}
	if c.Longitude.Valid && !c.Longitude.Finite() {
		c.Longitude = NullFloat{}
	}
}

// NormalizeAll normalizes a whole snapshot in place.
func NormalizeAll(records []ClaimRecord) {
	for i := range records {
		records[i].Normalize()
	}
}

// Clone returns a deep copy, so callers may mutate the copy without
// touching the snapshot it came from.
func (c ClaimRecord) Clone() ClaimRecord {
	out := c
	out.Name = cloneString(c.Name)
	out.Village = cloneString(c.Village)
	out.District = cloneString(c.District)
	out.State = cloneString(c.State)
	out.RawText = cloneString(c.RawText)
	if c.Entities != nil {
		out.Entities = make(map[string]string, len(c.Entities))
		for k, v := range c.Entities {
			out.Entities[k] = v
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// String dereferences an optional display string, returning "" when absent.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr wraps a literal for optional fields; it returns nil for "".
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
