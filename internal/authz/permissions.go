package authz

// Resource - защищаемый ресурс API.
type Resource string

// Action - действие над ресурсом.
type Action string

const (
	AstralTypes           Resource = "astral_types"
	AstralVariants        Resource = "astral_variants"
	AstralYears           Resource = "astral_years"
	AstralManufacturers   Resource = "astral_manufacturers"
	AstralParts           Resource = "astral_parts"
	AstralRevisions       Resource = "astral_revisions"
	Devices               Resource = "devices"
	MaterialParts         Resource = "material_parts"
	MaterialGroups        Resource = "material_groups"
	MaterialOperationType Resource = "material_operation_types"
	MaterialUsers         Resource = "material_users"
	MaterialStatuses      Resource = "material_statuses"
	MaterialWarehouses    Resource = "material_warehouses"
	Operations            Resource = "operations"
	Dashboard             Resource = "dashboard"
	Maintenance           Resource = "maintenance"
)

const (
	Create Action = "create"
	View   Action = "view"
	Update Action = "update"
	Delete Action = "delete"
)

// Permission - пара "ресурс:действие", например "operations:create".
type Permission struct {
	Resource Resource
	Action   Action
}

func (p Permission) String() string { return string(p.Resource) + ":" + string(p.Action) }

func Perm(r Resource, a Action) Permission { return Permission{Resource: r, Action: a} }

// AllResources - ресурсы с полным CRUD.
var AllResources = []Resource{
	AstralTypes, AstralVariants, AstralYears, AstralManufacturers, AstralParts, AstralRevisions,
	Devices, MaterialParts, MaterialGroups, MaterialOperationType, MaterialUsers, MaterialStatuses,
	MaterialWarehouses, Operations,
}
