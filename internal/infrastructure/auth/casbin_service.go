package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel is the RBAC model used when no model file is configured.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies grant admins the /api/admin surface. Regular users are
// authorised by authentication alone.
var DefaultPolicies = [][]string{
	{"role_admin", "/api/admin/*", "GET|POST|DELETE"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through gorm-adapter when db is
// non-nil, otherwise an in-memory enforcer. Missing default policies are seeded.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}

	var e *casbin.Enforcer
	if db != nil {
		adp, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, err
		}
		if e, err = casbin.NewEnforcer(m, adp); err != nil {
			return nil, err
		}
		if err := e.LoadPolicy(); err != nil {
			return nil, err
		}
	} else if e, err = casbin.NewEnforcer(m); err != nil {
		return nil, err
	}

	for _, p := range DefaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("seed policy %v: %w", p, err)
		}
	}
	return &CasbinService{E: e}, nil
}

func loadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(DefaultModel)
	}
	return model.NewModelFromFile(path)
}
