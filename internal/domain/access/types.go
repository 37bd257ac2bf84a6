package access

import "fmt"

type Realm string

const (
	// RealmNone is open to everyone, e.g. login pages and webhooks.
	RealmNone       Realm = ""
	// RealmStorefront is open to guests and members. Administrators are sent home.
	RealmStorefront Realm = "storefront"
	RealmMember     Realm = "member"
	RealmAdmin      Realm = "administrator"
)

type Entitlement string

const (
	EntitlementNone    Entitlement = ""
	// EntitlementPremium requires an active paid plan.
	EntitlementPremium Entitlement = "premium"
	// EntitlementFree requires that the member holds no active plan.
	EntitlementFree    Entitlement = "free"
)

// Principal is an authenticated account in one realm.
type Principal struct {
	Realm Realm
	ID    uint
}

// Identity carries the principals of both realms. Either may be nil.
type Identity struct {
	Member *Principal
	Admin  *Principal
}

func (i Identity) Anonymous() bool {
	return i.Member == nil && i.Admin == nil
}

// Rule is the static requirement a route declares.
type Rule struct {
	Realm       Realm
	Entitlement Entitlement

	// Owner is checked against the loaded resource. Nil skips the check.
	Owner         func(p Principal, resource any) bool
	// OwnerRedirect names the index page to send a non-owner to.
	OwnerRedirect func(resource any) string
}

// Validate rejects rules that cannot be evaluated.
func (r Rule) Validate() error {
	if r.Entitlement != EntitlementNone && r.Realm != RealmMember {
		return fmt.Errorf("entitlement %q requires realm %q, got %q", r.Entitlement, RealmMember, r.Realm)
	}
	if r.Owner != nil {
		if r.Realm != RealmMember && r.Realm != RealmAdmin {
			return fmt.Errorf("ownership check requires an authenticated realm, got %q", r.Realm)
		}
		if r.OwnerRedirect == nil {
			return fmt.Errorf("ownership check without redirect target")
		}
	}
	return nil
}

func (r Rule) NeedsEntitlement() bool {
	return r.Entitlement != EntitlementNone
}

func (r Rule) NeedsResource() bool {
	return r.Owner != nil
}

// Request is everything Decide looks at. Premium and Resource must be resolved
// by the caller beforehand; Decide performs no I/O.
type Request struct {
	Rule     Rule
	Identity Identity
	Premium  bool
	Resource any

	// Path is the path being requested, used to avoid redirecting to itself.
	Path string
}

type Reason string

const (
	ReasonAllow           Reason = "allow"
	ReasonAdminLogin      Reason = "admin_unauthenticated"
	ReasonMemberLogin     Reason = "member_unauthenticated"
	ReasonWrongRealm      Reason = "wrong_realm"
	ReasonNotEntitled     Reason = "not_entitled"
	ReasonAlreadyEntitled Reason = "already_entitled"
	ReasonNotOwner        Reason = "not_owner"
)

type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string
	Message  string
}
