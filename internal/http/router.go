package api

import (
	"database/sql"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "discoveryfy/internal/config"
	"discoveryfy/internal/domain/models"
	h "discoveryfy/internal/http/handlers"
	"discoveryfy/internal/http/middleware"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/repositories"
	"discoveryfy/internal/resource"
	"discoveryfy/internal/services"
)

// Deps are the process-wide collaborators the routes share.
type Deps struct {
	DB *sql.DB
	// Cache backs the read-through cache; nil disables caching.
	Cache resource.Cache
}

func NewRouter(cfg *intconfig.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(cfg.CORS.Origins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logging.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		resp := resource.Error(stdhttp.StatusNotFound, "")
		c.JSON(resp.Status, resp.Body)
	})

	store := repositories.NewStore(deps.DB)
	retriever := resource.NewRetriever(store, deps.Cache, cfg.Cache.TTL)
	transformer := &resource.Transformer{BaseURL: cfg.App.URL, Resolver: retriever}
	read := func(d resource.Descriptor, mode resource.Mode, scope ...resource.Predicate) *resource.Controller {
		d = d.As(mode)
		d.Scope = scope
		return resource.NewController(d, retriever, transformer, cfg.Cache.TTL)
	}
	public := resource.Predicate{Field: "public_visibility", Value: true}

	userRepo := repositories.UserRepository{DB: deps.DB}
	groupRepo := repositories.GroupRepository{DB: deps.DB}
	auth := services.AuthService{Users: userRepo, Secret: []byte(cfg.Auth.JWTSecret), TTL: cfg.Auth.TokenTTL}
	authHandler := h.AuthHandler{
		Users:       services.UserService{Users: userRepo, Cache: retriever},
		Auth:        auth,
		Transformer: transformer,
	}
	groupSvc := services.GroupService{Groups: groupRepo, Cache: retriever}
	pollSvc := services.PollService{Polls: repositories.PollRepository{DB: deps.DB}, Groups: groupRepo, Cache: retriever}

	r.GET("/health", h.Health(deps.DB))
	r.GET("/metrics", h.Metrics())
	r.GET("/routes", h.Routes)

	api := r.Group("/")
	api.Use(middleware.Auth(auth))
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		users := api.Group("/users")
		users.GET("/:id", h.Read(read(models.UsersResource, resource.Item)))

		groups := api.Group("/groups")
		groups.GET("", h.Read(read(models.GroupsResource, resource.Collection, public)))
		groups.GET("/:id", h.Read(read(models.GroupsResource, resource.Item)))
		groups.GET("/:id/polls", h.ReadRelated(read(models.PollsResource, resource.Collection), models.Groups, "group_id"))
		groups.GET("/:id/memberships", h.ReadRelated(read(models.MembershipsResource, resource.Collection), models.Groups, "group_id"))
		groups.PUT("/:id", middleware.RequireAuth(), h.Update[models.Group](models.GroupsResource, transformer, groupSvc.Update))

		polls := api.Group("/polls")
		polls.GET("", h.Read(read(models.PollsResource, resource.Collection, public)))
		polls.GET("/:id", h.Read(read(models.PollsResource, resource.Item)))
		polls.GET("/:id/tracks", h.ReadRelated(read(models.TracksResource, resource.Collection), models.Polls, "poll_id"))
		polls.PUT("/:id", middleware.RequireAuth(), h.Update[models.Poll](models.PollsResource, transformer, pollSvc.Update))

		tracks := api.Group("/tracks")
		tracks.GET("/:id", h.Read(read(models.TracksResource, resource.Item)))
		tracks.GET("/:id/votes", h.ReadRelated(read(models.VotesResource, resource.Collection), models.Tracks, "track_id"))
	}

	h.SetRouter(r)
	return r
}
