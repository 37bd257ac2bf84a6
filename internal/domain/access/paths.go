package access

const (
	PathMemberHome         = "/"
	PathMemberLogin        = "/login"
	PathAdminHome          = "/admin"
	PathAdminLogin         = "/admin/login"
	PathSubscriptionCreate = "/subscription/create"
	PathSubscriptionEdit   = "/subscription/edit"
)
