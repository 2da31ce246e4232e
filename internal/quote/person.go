package quote

import (
	"fmt"
	"starquote/internal/age"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
)

// Role decides whether a member's age can represent the family on the portal.
type Role string

const (
	RoleAdult  Role = "adult"
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Qualifies reports whether the role takes part in the representative age.
func (r Role) Qualifies() bool {
	return r == RoleAdult || r == RoleParent
}

var roleAliases = map[string]Role{
	"adult":         RoleAdult,
	"self":          RoleAdult,
	"proposer":      RoleAdult,
	"spouse":        RoleAdult,
	"wife":          RoleAdult,
	"husband":       RoleAdult,
	"partner":       RoleAdult,
	"parent":        RoleParent,
	"father":        RoleParent,
	"mother":        RoleParent,
	"father-in-law": RoleParent,
	"mother-in-law": RoleParent,
	"child":         RoleChild,
	"son":           RoleChild,
	"daughter":      RoleChild,
	"kid":           RoleChild,
}

// minimum Jaro-Winkler similarity for a misspelled relation to be accepted
const roleSimilarityThreshold = 0.9

// ParseRole accepts a role name or a relation ("mother", "son", ...), misspellings
// close enough to a known word are tolerated.
func ParseRole(text string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return RoleAdult, nil
	}
	role, ok := roleAliases[normalized]
	if ok {
		return role, nil
	}

	bestScore := 0.0
	var best Role
	for alias, r := range roleAliases {
		score := matchr.JaroWinkler(normalized, alias, false)
		if score > bestScore {
			bestScore = score
			best = r
		}
	}
	if bestScore >= roleSimilarityThreshold {
		return best, nil
	}
	return "", fmt.Errorf("unknown role %q", text)
}

// Person is a member of a family quote.
type Person struct {
	Name      string
	BirthDate time.Time
	Role      Role
}

// NewPerson parses `dob` as YYYY-MM-DD, malformed dates return an *age.ParseError.
func NewPerson(name, dob string, role Role) (Person, error) {
	birth, err := age.Parse(dob)
	if err != nil {
		return Person{}, err
	}
	return Person{Name: name, BirthDate: birth, Role: role}, nil
}

// ParseMember parses "Name:YYYY-MM-DD[:role]", a missing role means adult.
func ParseMember(spec string) (Person, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Person{}, fmt.Errorf("member %q: expected Name:YYYY-MM-DD[:role]", spec)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Person{}, fmt.Errorf("member %q: name is empty", spec)
	}
	role := RoleAdult
	if len(parts) == 3 {
		var err error
		role, err = ParseRole(parts[2])
		if err != nil {
			return Person{}, fmt.Errorf("member %q: %w", spec, err)
		}
	}
	return NewPerson(name, strings.TrimSpace(parts[1]), role)
}

// FamilyLabel joins member names in order with " + ".
func FamilyLabel(members []Person) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, " + ")
}
