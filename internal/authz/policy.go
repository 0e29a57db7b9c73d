package authz

import (
	"fmt"

	"inventory-system/internal/entities"
)

// Requirement - минимальная роль для действия.
type Requirement int

const (
	AnyAuthenticated Requirement = iota + 1
	AdminOnly
)

func (r Requirement) String() string {
	switch r {
	case AnyAuthenticated:
		return "any"
	case AdminOnly:
		return "admin"
	}
	return "deny"
}

// ParseRequirement принимает значение OPERATIONS_CREATE_ROLE: "regular" или "admin".
func ParseRequirement(role string) (Requirement, error) {
	switch role {
	case entities.UserTypeRegular, "any", "":
		return AnyAuthenticated, nil
	case entities.UserTypeAdmin:
		return AdminOnly, nil
	}
	return 0, fmt.Errorf("неизвестная роль %q: ожидается regular или admin", role)
}

// Actor - тот, кто выполняет запрос.
type Actor struct {
	ID      uint64
	IsAdmin bool
	Active  bool
}

func ActorFromAccount(a *entities.Account) Actor {
	return Actor{ID: a.ID, IsAdmin: a.IsAdmin(), Active: a.IsActive}
}

// Policy - таблица Resource x Action -> Requirement. Отсутствующая запись запрещает действие.
type Policy struct {
	rules map[Permission]Requirement
}

// DefaultPolicy: просмотр доступен любому аутентифицированному, изменения - только администратору,
// кроме operations:create, роль для которого задаётся конфигурацией.
func DefaultPolicy(operationsCreate Requirement) *Policy {
	p := &Policy{rules: make(map[Permission]Requirement)}
	for _, res := range AllResources {
		p.Set(Perm(res, View), AnyAuthenticated)
		p.Set(Perm(res, Create), AdminOnly)
		p.Set(Perm(res, Update), AdminOnly)
		p.Set(Perm(res, Delete), AdminOnly)
	}
	p.Set(Perm(Operations, Create), operationsCreate)
	p.Set(Perm(Dashboard, View), AnyAuthenticated)
	p.Set(Perm(Maintenance, Update), AdminOnly)
	return p
}

func (p *Policy) Set(perm Permission, req Requirement) {
	p.rules[perm] = req
}

func (p *Policy) Requirement(perm Permission) (Requirement, bool) {
	req, ok := p.rules[perm]
	return req, ok
}

// Can отвечает, разрешено ли действие. Неактивная учётная запись не может ничего.
func (p *Policy) Can(actor Actor, perm Permission) bool {
	if !actor.Active || actor.ID == 0 {
		return false
	}
	req, ok := p.rules[perm]
	if !ok {
		return false
	}
	switch req {
	case AnyAuthenticated:
		return true
	case AdminOnly:
		return actor.IsAdmin
	}
	return false
}
