// Package router assembles the versioned HTTP API from per-domain
// route groups.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Group collects the routes of one domain under a shared prefix.
// Routes are declared up front and mounted in one pass, so route
// tables stay readable in main.
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup creates a route group for one domain. The prefix is mounted
// under the router's versioned base path.
func NewGroup(name, prefix string) *Group {
	return &Group{name: name, prefix: prefix}
}

// Use adds middleware applied to every route in the group
func (g *Group) Use(mw ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, mw...)
	return g
}

// Handle declares a route on the group
func (g *Group) Handle(method, path string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

// GET declares a GET route
func (g *Group) GET(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodGet, path, handlers...)
}

// POST declares a POST route
func (g *Group) POST(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPost, path, handlers...)
}

// PUT declares a PUT route
func (g *Group) PUT(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPut, path, handlers...)
}

// DELETE declares a DELETE route
func (g *Group) DELETE(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodDelete, path, handlers...)
}

// Name returns the group name
func (g *Group) Name() string {
	return g.name
}

func (g *Group) mount(api *gin.RouterGroup) {
	mounted := api.Group(g.prefix)
	if len(g.middleware) > 0 {
		mounted.Use(g.middleware...)
	}
	for _, r := range g.routes {
		mounted.Handle(r.method, r.path, r.handlers...)
	}
}

// Router mounts domain groups under a versioned base path
type Router struct {
	engine     *gin.Engine
	apiVersion string
	groups     []*Group
}

// Option configures a Router
type Option func(*Router)

// WithAPIVersion sets the version segment of the base path
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router mounting groups under /api/v1 by default
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues groups for mounting
func (r *Router) Register(groups ...*Group) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup mounts every registered group onto the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, g := range r.groups {
		g.mount(api)
	}
}
