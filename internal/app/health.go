package app

import (
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/mongodb"
	"github.com/duckhanhdev/twofa/internal/pkg/router"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (healthResponse) Message() string {
	return "service is healthy"
}

// healthEndpoint reports readiness. It fails when the database or cache is
// unreachable so load balancers stop routing to this instance.
func (a *App) healthEndpoint(r *router.Request) (any, error) {
	ctx := r.Context()

	if err := mongodb.Healthcheck(a.dbClient)(ctx); err != nil {
		return nil, goerror.NewServer(err)
	}

	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		return nil, goerror.NewServer(err)
	}

	return healthResponse{Status: "ok"}, nil
}
