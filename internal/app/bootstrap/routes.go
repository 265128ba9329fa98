// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/dalemusser/grouphub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/grouphub/internal/app/features/health"
	loginfeature "github.com/dalemusser/grouphub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/grouphub/internal/app/features/logout"
	postsfeature "github.com/dalemusser/grouphub/internal/app/features/posts"
	userinfofeature "github.com/dalemusser/grouphub/internal/app/features/userinfo"
	"github.com/dalemusser/grouphub/internal/app/service/formation"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	userstore "github.com/dalemusser/grouphub/internal/app/store/users"
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, wires
// the stores into the formation service, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.GroupHubMongoDatabase

	// The formation service owns the cross-entity invariants (one group per
	// post, all-or-nothing admission); handlers share one instance.
	svc := formation.New(poststore.New(db), groupstore.New(db), intereststore.New(db), userstore.New(db), logger)
	svc.AddCreator = appCfg.GroupAddCreator

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GroupHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	userinfoHandler := userinfofeature.NewHandler()
	r.Mount("/userinfo", userinfofeature.Routes(userinfoHandler))

	// Need posts: lifecycle, interest ledger, group formation entry point
	postsHandler := postsfeature.NewHandler(db, svc, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr))

	// Groups: membership view and admission
	groupsHandler := groupsfeature.NewHandler(db, svc, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	return r, nil
}
