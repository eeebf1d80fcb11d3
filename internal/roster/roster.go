package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"sportslot/internal/auth"
)

// Member is one row of the provisioning roster: group, last name, first name
// and an optional role column (defaults to USER).
type Member struct {
	FirstName  string
	LastName   string
	GroupLabel string
	Role       string
	Email      string
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers, strips accents-ish characters and collapses everything that
// is not alphanumeric into single dashes, matching the login-name convention.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Parse reads a CSV roster (columns: group, last name, first name, optional
// role) and assigns each member a unique email login of the form
// first.last@domain, suffixing duplicates with a counter.
func Parse(r io.Reader, domain string) ([]Member, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	seen := make(map[string]bool)
	var members []Member

	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("roster line %d: expected at least 3 columns (group, last, first)", i+1)
		}

		group := strings.TrimSpace(rec[0])
		last := strings.TrimSpace(rec[1])
		first := strings.TrimSpace(rec[2])
		if group == "" || last == "" || first == "" {
			return nil, fmt.Errorf("roster line %d: group, last and first name are required", i+1)
		}

		role := auth.RoleUser
		if len(rec) > 3 {
			switch strings.ToUpper(strings.TrimSpace(rec[3])) {
			case "":
				// default
			case auth.RoleAdmin:
				role = auth.RoleAdmin
			case auth.RoleUser:
				role = auth.RoleUser
			default:
				return nil, fmt.Errorf("roster line %d: unknown role %q", i+1, rec[3])
			}
		}

		base := Slugify(first) + "." + Slugify(last)
		username := base
		for n := 2; seen[username]; n++ {
			username = fmt.Sprintf("%s%d", base, n)
		}
		seen[username] = true

		members = append(members, Member{
			FirstName:  titleCase(first),
			LastName:   titleCase(last),
			GroupLabel: group,
			Role:       role,
			Email:      strings.ToLower(username + "@" + domain),
		})
	}

	return members, nil
}

// titleCase capitalizes each space- or dash-separated word, so roster names
// entered as "ROSSI" or "de luca" come out as "Rossi" and "De Luca".
func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if upperNext && r != ' ' && r != '-' {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		if r == ' ' || r == '-' || r == '\'' {
			upperNext = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate enforces the provisioning rule that the roster carries exactly one
// administrator.
func Validate(members []Member) error {
	admins := 0
	for _, m := range members {
		if m.Role == auth.RoleAdmin {
			admins++
		}
	}

	if admins == 0 {
		return fmt.Errorf("no ADMIN user found in roster")
	}
	if admins > 1 {
		return fmt.Errorf("more than one ADMIN found in roster (%d)", admins)
	}

	return nil
}
