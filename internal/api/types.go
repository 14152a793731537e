package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Status is a submission's review state. The platform stores it as free
// text, so it is lowercased at the unmarshal boundary and call sites can
// compare against the constants directly.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Status(strings.ToLower(strings.TrimSpace(v)))
	return nil
}

// ID tolerates the identifier shapes the hosted API emits: JSON strings and
// numbers both normalize to a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Number tolerates numeric fields arriving as JSON numbers, numeric strings,
// or null. Anything unparseable reads as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// ChallengeRef is the challenge field of a submission. Depending on how the
// project schema was uploaded, the backend stores either a raw id (string or
// number) or an embedded object carrying id/_id. This type narrows all of
// those to a string id at the unmarshal boundary so call sites never branch
// on shape.
type ChallengeRef string

func (r *ChallengeRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*r = ""
		return nil
	}
	if len(s) > 0 && s[0] == '{' {
		var obj struct {
			ID       *ID `json:"id"`
			LegacyID *ID `json:"_id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.ID != nil:
			*r = ChallengeRef(*obj.ID)
		case obj.LegacyID != nil:
			*r = ChallengeRef(*obj.LegacyID)
		default:
			*r = ""
		}
		return nil
	}
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = ChallengeRef(id)
	return nil
}

func (r ChallengeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r ChallengeRef) String() string { return string(r) }

// User is an auth account on the platform.
type User struct {
	ID    ID       `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Profile is the administrative listing record for a user: display name and
// a score mirror. It is a separate resource from the auth account.
type Profile struct {
	ID          ID     `json:"id"`
	LegacyID    ID     `json:"_id"`
	UserEmail   string `json:"userEmail"`
	DisplayName string `json:"displayName"`
	TotalScore  Number `json:"totalScore"`
}

// Ref returns the profile's id, whichever field the backend populated.
func (p Profile) Ref() string {
	if p.ID != "" {
		return p.ID.String()
	}
	return p.LegacyID.String()
}

// Challenge is a coding exercise in the remote catalog.
type Challenge struct {
	ID          ID     `json:"id"`
	LegacyID    ID     `json:"_id"`
	ChallengeID ID     `json:"challengeId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Points      Number `json:"points"`
}

// Ref returns the challenge's id across the aliases the backend may use.
func (c Challenge) Ref() string {
	switch {
	case c.ID != "":
		return c.ID.String()
	case c.LegacyID != "":
		return c.LegacyID.String()
	default:
		return c.ChallengeID.String()
	}
}

// Submission is a user's attempt at a challenge.
type Submission struct {
	ID              ID           `json:"id"`
	UserEmail       string       `json:"userEmail"`
	Challenge       ChallengeRef `json:"challenge"`
	Code            string       `json:"code"`
	Status          Status       `json:"status"`
	PointsRequested Number       `json:"pointsRequested"`
	PointsAwarded   *Number      `json:"pointsAwarded"`
	CreatedAt       string       `json:"createdAt"`
	UpdatedAt       string       `json:"updatedAt"`
	Date            string       `json:"date"`
}

// Awarded returns the graded points, falling back to the requested points
// when the submission has not been graded.
func (s Submission) Awarded() float64 {
	if s.PointsAwarded != nil {
		return float64(*s.PointsAwarded)
	}
	return float64(s.PointsRequested)
}

// NewSubmission is the create payload. The challenge field is always sent
// as a string id regardless of what the backend returned.
type NewSubmission struct {
	Challenge       string  `json:"challenge"`
	UserEmail       string  `json:"userEmail"`
	Code            string  `json:"code"`
	Status          Status  `json:"status"`
	PointsRequested float64 `json:"pointsRequested"`
}

// SubmissionPatch is the update payload for resubmits and grading. Pointer
// fields are omitted when nil; PointsAwarded serializes an explicit null to
// clear a prior grade.
type SubmissionPatch struct {
	Challenge       string   `json:"challenge,omitempty"`
	UserEmail       string   `json:"userEmail,omitempty"`
	Code            *string  `json:"code,omitempty"`
	Status          Status   `json:"status,omitempty"`
	PointsRequested *float64 `json:"pointsRequested,omitempty"`
	PointsAwarded   *float64 `json:"pointsAwarded"`
}

// ProfilePatch is the update payload for profile records.
type ProfilePatch struct {
	DisplayName string   `json:"displayName,omitempty"`
	TotalScore  *float64 `json:"totalScore,omitempty"`
}

// LoginResponse is the documented response shape of POST /api/login.
type LoginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}
