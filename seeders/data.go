package seeders

type namedRow struct {
	Name        string
	Code        string
	Description string
}

var astralTypesData = []namedRow{
	{Name: "Блок", Code: "block", Description: "Законченное изделие в корпусе"},
	{Name: "Модуль", Code: "module", Description: "Сменный функциональный модуль"},
	{Name: "Плата", Code: "board", Description: "Печатная плата"},
	{Name: "Кабель", Code: "cable", Description: "Кабельная сборка"},
}

var astralManufacturersData = []namedRow{
	{Name: "НТДЦ", Code: "ntdc", Description: "Собственное производство"},
	{Name: "Сторонний поставщик", Code: "vendor", Description: ""},
}

var materialGroupsData = []string{
	"Склад",
	"Производство",
	"Эксплуатация",
}

// Типы операций привязаны к группе по имени.
var materialOperationTypesData = []struct {
	Name  string
	Group string
}{
	{Name: "Поступление", Group: "Склад"},
	{Name: "Выдача", Group: "Склад"},
	{Name: "Возврат", Group: "Склад"},
	{Name: "Сборка", Group: "Производство"},
	{Name: "Ремонт", Group: "Производство"},
	{Name: "Установка", Group: "Эксплуатация"},
	{Name: "Списание", Group: "Эксплуатация"},
}

var materialStatusesData = []string{
	"Исправно",
	"Неисправно",
	"В ремонте",
	"Списано",
}

var materialWarehousesData = []string{
	"Основной склад",
}

// Таблицы с BIGSERIAL id, последовательности которых выравниваются по MAX(id).
var sequenceTables = []string{
	"astral_types",
	"astral_variants",
	"astral_years",
	"astral_manufacturers",
	"astral_parts",
	"astral_revisions",
	"devices",
	"material_parts",
	"material_groups",
	"material_operation_types",
	"material_users",
	"material_statuses",
	"material_warehouses",
	"operations",
	"accounts",
}
