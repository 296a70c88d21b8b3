package models

// All lists every persistence model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&RoleModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
		&UserPermissionModel{},
		&AuditLogModel{},
	}
}
