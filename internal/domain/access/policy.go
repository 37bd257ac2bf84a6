package access

const (
	msgLogin          = "Please log in to continue."
	msgAdminLogin     = "Please log in as an administrator."
	msgAdminOnly      = "This page is for administrators only."
	msgMemberOnly     = "Administrators cannot use member pages."
	msgPremium        = "This feature requires a premium membership."
	msgAlreadyPremium = "You are already a premium member."
	msgNotOwner       = "You are not allowed to access that item."
)

// Decide evaluates a request against its rule. The first matching step wins:
// unauthenticated, wrong realm, entitlement, ownership, allow.
func Decide(req Request) Decision {
	d := decide(req)
	if !d.Allowed && req.Path != "" && d.Redirect == req.Path {
		d.Redirect = fallbackFor(d, req)
	}
	return d
}

// fallbackFor replaces a redirect that points back at the requested path.
// A member of the wrong realm goes to the member home, never to a login page.
func fallbackFor(d Decision, req Request) string {
	if d.Reason == ReasonWrongRealm && req.Identity.Member != nil && req.Path != PathMemberHome {
		return PathMemberHome
	}
	return loginFor(req.Rule.Realm)
}

// DecideRealm evaluates only the identity steps. Callers use it before spending
// I/O on entitlement or resource loading.
func DecideRealm(req Request) Decision {
	req.Rule.Entitlement = EntitlementNone
	req.Rule.Owner = nil
	return Decide(req)
}

// DecideEntitlement evaluates every step except ownership.
func DecideEntitlement(req Request) Decision {
	req.Rule.Owner = nil
	return Decide(req)
}

func decide(req Request) Decision {
	rule, id := req.Rule, req.Identity

	switch rule.Realm {
	case RealmAdmin:
		if id.Anonymous() {
			return deny(ReasonAdminLogin, PathAdminLogin, msgAdminLogin)
		}
	case RealmMember:
		if id.Anonymous() {
			return deny(ReasonMemberLogin, PathMemberLogin, msgLogin)
		}
	}

	switch rule.Realm {
	case RealmStorefront, RealmMember:
		if id.Admin != nil {
			return deny(ReasonWrongRealm, PathAdminHome, msgMemberOnly)
		}
	case RealmAdmin:
		if id.Admin == nil {
			return deny(ReasonWrongRealm, PathAdminHome, msgAdminOnly)
		}
	}

	if rule.Realm == RealmMember && id.Member != nil {
		switch rule.Entitlement {
		case EntitlementPremium:
			if !req.Premium {
				return deny(ReasonNotEntitled, PathSubscriptionCreate, msgPremium)
			}
		case EntitlementFree:
			if req.Premium {
				return deny(ReasonAlreadyEntitled, PathSubscriptionEdit, msgAlreadyPremium)
			}
		}
	}

	if rule.Owner != nil {
		p := principalFor(rule.Realm, id)
		if p == nil || !rule.Owner(*p, req.Resource) {
			return deny(ReasonNotOwner, rule.OwnerRedirect(req.Resource), msgNotOwner)
		}
	}

	return Decision{Allowed: true, Reason: ReasonAllow}
}

func principalFor(realm Realm, id Identity) *Principal {
	switch realm {
	case RealmMember:
		return id.Member
	case RealmAdmin:
		return id.Admin
	}
	return nil
}

func loginFor(realm Realm) string {
	if realm == RealmAdmin {
		return PathAdminLogin
	}
	return PathMemberLogin
}

func deny(reason Reason, redirect, msg string) Decision {
	return Decision{Reason: reason, Redirect: redirect, Message: msg}
}
