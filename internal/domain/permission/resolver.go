package permission

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// Nombres de las reglas, en orden de precedencia.
const (
	RuleDirector     = "director"
	RuleRole         = "role"
	RuleTemplate     = "template"
	RuleUserOverride = "user_override"
	RuleRestrictive  = "restrictive"
)

// Subject quién pide permisos y en qué tenant. Roles son las filas de user_roles del tenant;
// Director lo calcula el llamador (ver IsDirector).
type Subject struct {
	UserID   string
	TenantID string
	Roles    []string
	Director bool
}

// Source puerto de lectura de overrides y plantillas.
// Ambos métodos devuelven (nil, nil) cuando la fila no existe.
type Source interface {
	GetUserPermissions(ctx context.Context, userID, tenantID string) (*entity.UserPermissions, error)
	GetTemplate(ctx context.Context, tenantID, templateID string) (*entity.PermissionTemplate, error)
}

// Rule una estrategia de resolución: devuelve ok=false para ceder a la siguiente.
type Rule struct {
	Name  string
	Apply func(ctx context.Context, s Subject, st *lookup) (Permissions, bool)
}

// Resolution resultado de Resolve: permisos, regla que ganó y errores de lectura degradados.
type Resolution struct {
	Permissions Permissions
	Rule        string
	Errors      []error
}

// Resolver evalúa las reglas en orden. Nunca devuelve error: los fallos de lectura
// se acumulan en Resolution.Errors y la resolución cae al valor restrictivo.
type Resolver struct {
	source Source
	rules  []Rule
}

// NewResolver construye el resolver con las cinco reglas en orden de precedencia.
func NewResolver(source Source) *Resolver {
	return &Resolver{
		source: source,
		rules: []Rule{
			{Name: RuleDirector, Apply: directorRule},
			{Name: RuleRole, Apply: roleRule},
			{Name: RuleTemplate, Apply: templateRule},
			{Name: RuleUserOverride, Apply: userOverrideRule},
			{Name: RuleRestrictive, Apply: restrictiveRule},
		},
	}
}

// Resolve calcula los permisos efectivos del sujeto.
func (r *Resolver) Resolve(ctx context.Context, s Subject) Resolution {
	st := &lookup{source: r.source, subject: s}
	for _, rule := range r.rules {
		if p, ok := rule.Apply(ctx, s, st); ok {
			return Resolution{Permissions: p, Rule: rule.Name, Errors: st.errs}
		}
	}
	return Resolution{Permissions: RestrictivePermissions, Rule: RuleRestrictive, Errors: st.errs}
}

// IsDirector cuenta sin sucursal seleccionada, con rol efectivo admin o manager y sin superadmin.
func IsDirector(profile *entity.Profile, roles []string) bool {
	if profile == nil || profile.HasBranch() {
		return false
	}
	if entity.HasRole(roles, entity.RoleSuperadmin) {
		return false
	}
	switch entity.HighestRole(roles) {
	case entity.RoleAdmin, entity.RoleManager:
		return true
	}
	return false
}

// lookup memoiza las lecturas de una resolución para que las reglas 3 y 4 compartan
// la misma fila de override y el mismo estado de error.
type lookup struct {
	source  Source
	subject Subject

	loaded   bool
	override *entity.UserPermissions
	failed   bool
	errs     []error
}

func (l *lookup) userPermissions(ctx context.Context) (*entity.UserPermissions, bool) {
	if !l.loaded {
		l.loaded = true
		row, err := l.source.GetUserPermissions(ctx, l.subject.UserID, l.subject.TenantID)
		if err != nil {
			l.fail(fmt.Errorf("leer user_permissions: %w", err))
			return nil, false
		}
		l.override = row
	}
	if l.failed {
		return nil, false
	}
	return l.override, l.override != nil
}

func (l *lookup) fail(err error) {
	l.failed = true
	l.errs = append(l.errs, err)
}

func directorRule(_ context.Context, s Subject, _ *lookup) (Permissions, bool) {
	if !s.Director {
		return Permissions{}, false
	}
	return DirectorPermissions, true
}

func roleRule(_ context.Context, s Subject, _ *lookup) (Permissions, bool) {
	if entity.HasRole(s.Roles, entity.RoleSuperadmin) || entity.HasRole(s.Roles, entity.RoleAdmin) {
		return DefaultPermissions, true
	}
	return Permissions{}, false
}

func templateRule(ctx context.Context, s Subject, st *lookup) (Permissions, bool) {
	row, ok := st.userPermissions(ctx)
	if !ok || !row.HasTemplate() {
		return Permissions{}, false
	}
	tpl, err := st.source.GetTemplate(ctx, s.TenantID, row.TemplateID)
	if err != nil {
		st.fail(fmt.Errorf("leer plantilla %s: %w", row.TemplateID, err))
		return Permissions{}, false
	}
	if tpl == nil {
		// Plantilla borrada: se usan las banderas propias de la fila (regla siguiente).
		return Permissions{}, false
	}
	return FromFlags(tpl.Flags, row.DashboardType), true
}

func userOverrideRule(ctx context.Context, _ Subject, st *lookup) (Permissions, bool) {
	row, ok := st.userPermissions(ctx)
	if !ok {
		return Permissions{}, false
	}
	return FromFlags(row.Flags, row.DashboardType), true
}

func restrictiveRule(context.Context, Subject, *lookup) (Permissions, bool) {
	return RestrictivePermissions, true
}
