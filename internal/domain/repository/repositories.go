package repository

// Repositories conjunto de repositorios de un driver de almacenamiento (postgres o memoria).
type Repositories struct {
	Tenants        TenantRepository
	Branches       BranchRepository
	Users          UserRepository
	Profiles       ProfileRepository
	Roles          RoleRepository
	Templates      PermissionTemplateRepository
	Overrides      UserPermissionsRepository
	Products       ProductRepository
	SerialNumbers  SerialNumberRepository
	Invoices       InvoiceRepository
	StockMovements StockMovementRepository
}
