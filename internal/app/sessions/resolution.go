package sessions

import "github.com/apa-portal/member-portal/internal/domain"

const (
	DashboardPath = "/member/dashboard"
	LoginPath     = "/member/login"
)

// Resolution is the outcome of resolving a session token: present with a
// session, or absent. There is no error variant.
type Resolution struct {
	session domain.MemberSession
	present bool
}

func Present(s domain.MemberSession) Resolution { return Resolution{session: s, present: true} }
func Absent() Resolution                         { return Resolution{} }

func (r Resolution) IsPresent() bool { return r.present }

// Session returns the resolved session and whether one is present.
func (r Resolution) Session() (domain.MemberSession, bool) { return r.session, r.present }

// Destination is where the member gate sends the visitor.
func Destination(r Resolution) string {
	if r.present {
		return DashboardPath
	}
	return LoginPath
}
