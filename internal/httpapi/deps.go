package httpapi

import (
	"database/sql"
	"sync/atomic"

	"github.com/cayden0207/ctg-talents/internal/auth"
	"github.com/cayden0207/ctg-talents/internal/config"
	"github.com/cayden0207/ctg-talents/internal/engine"
	"github.com/cayden0207/ctg-talents/internal/events"
)

type Deps struct {
	DB *sql.DB

	Engine *engine.Engine
	Hub    *events.Hub

	// Atomic store; holds config.Config so PUT /config can swap it live.
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	SigningKey   []byte
	LoginLimiter *auth.LoginLimiter
}

func (d Deps) cfg() config.Config {
	return d.CfgVal.Load().(config.Config)
}
