// Package access models who is making a request: an optional admin identity
// and the per-course video grants earned by proving enrollment.
package access

// AdminIdentity is the authenticated instructor, if any.
type AdminIdentity struct {
	AdminID  int64
	Username string
	FullName string
}

// Visitor is built once per request and passed explicitly to workflows.
type Visitor struct {
	Admin  *AdminIdentity
	grants map[int64]string
}

// NewVisitor returns a visitor holding a copy of the given grants.
func NewVisitor(admin *AdminIdentity, grants map[int64]string) Visitor {
	v := Visitor{Admin: admin, grants: make(map[int64]string, len(grants))}
	for courseID, email := range grants {
		v.grants[courseID] = email
	}
	return v
}

// IsAdmin reports whether the visitor is a logged-in instructor.
// INVARIANT: Visitor fields are not mutated
func (v Visitor) IsAdmin() bool {
	return v.Admin != nil
}

// Grant returns the email that unlocked courseID, if any.
// INVARIANT: Visitor fields are not mutated
func (v Visitor) Grant(courseID int64) (string, bool) {
	email, ok := v.grants[courseID]
	return email, ok
}

// WithGrant returns a copy of v that can view courseID's videos as email.
// POST: the receiver is unchanged
func (v Visitor) WithGrant(courseID int64, email string) Visitor {
	next := NewVisitor(v.Admin, v.grants)
	next.grants[courseID] = email
	return next
}

// Grants returns a copy of all course grants.
func (v Visitor) Grants() map[int64]string {
	out := make(map[int64]string, len(v.grants))
	for k, e := range v.grants {
		out[k] = e
	}
	return out
}
