// Package reconcile keeps the accounts and members collections mutually
// consistent. It builds the merged identity view over both and computes the
// member-side effects of account writes and deletes. The engine never
// touches storage itself: it takes the loaded member list and returns the
// staged replacement, so the pipeline can commit both collections together.
package reconcile

import (
	"github.com/alderbrook/civicd/internal/model"
)

// Origin tags where a merged view entry came from.
type Origin string

const (
	OriginAccount  Origin = "account"
	OriginMember   Origin = "member"
	OriginCombined Origin = "combined"
)

// MergedView is the read-only projection of one identity across the
// accounts and members collections.
type MergedView struct {
	Key    string `json:"key"`
	Origin Origin `json:"origin"`

	AccountID string     `json:"account_id,omitempty"`
	MemberID  string     `json:"member_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      model.Role `json:"role,omitempty"`
	Active    bool       `json:"active"`

	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	JoinDate     string `json:"join_date,omitempty"`
	MemberNumber string `json:"member_number,omitempty"`
}

// viewKey normalizes a record's identity key: the case-folded email, or the
// record's own id when no email is present.
func viewKey(email, id string) string {
	if k := model.EmailKey(email); k != "" {
		return k
	}
	return id
}

// BuildMergedView combines accounts and members into one identity list.
// Accounts are walked first in their original order, then unmatched members
// in theirs, so repeated builds over unchanged inputs produce identical
// output.
func BuildMergedView(accounts []*model.Account, members []*model.Member) []MergedView {
	views := make([]MergedView, 0, len(accounts)+len(members))
	index := make(map[string]int, len(accounts))

	for _, a := range accounts {
		key := viewKey(a.Email, a.ID)
		views = append(views, MergedView{
			Key:       key,
			Origin:    OriginAccount,
			AccountID: a.ID,
			MemberID:  a.MemberID,
			Email:     a.Email,
			Name:      a.Name,
			Role:      a.Role,
			Active:    a.Active,
		})
		if _, taken := index[key]; !taken {
			index[key] = len(views) - 1
		}
	}

	for _, m := range members {
		key := viewKey(m.Email, m.ID)
		i, ok := index[key]
		if !ok {
			views = append(views, MergedView{
				Key:          key,
				Origin:       OriginMember,
				MemberID:     m.ID,
				Email:        m.Email,
				Name:         m.Name,
				Role:         model.RoleMember,
				Active:       m.Active,
				Phone:        m.Phone,
				Address:      m.Address,
				JoinDate:     m.JoinDate,
				MemberNumber: m.MemberNumber,
			})
			continue
		}

		// Fill only the placeholders the account side left empty.
		v := &views[i]
		v.Origin = OriginCombined
		v.MemberID = m.ID
		if v.Name == "" {
			v.Name = m.Name
		}
		if v.Phone == "" {
			v.Phone = m.Phone
		}
		if v.Address == "" {
			v.Address = m.Address
		}
		if v.JoinDate == "" {
			v.JoinDate = m.JoinDate
		}
		if v.MemberNumber == "" {
			v.MemberNumber = m.MemberNumber
		}
	}

	return views
}
