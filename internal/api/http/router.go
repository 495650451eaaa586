package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"absenceportal/internal/api/http/handler"
	"absenceportal/internal/api/http/middleware"
	"absenceportal/internal/logger"
	"absenceportal/internal/token"
)

// Router wires handlers and middleware into a gin engine.
type Router struct {
	account *handler.Account
	roster  *handler.Roster
	absence *handler.Absence
	tokens  token.Manager
	logger  *logger.Logger
}

// New creates a Router over the given services.
func New(
	accountService handler.AccountService,
	rosterService handler.RosterService,
	absenceService handler.AbsenceService,
	tokens token.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		account: handler.NewAccount(accountService, logger),
		roster:  handler.NewRoster(rosterService, logger),
		absence: handler.NewAbsence(absenceService, logger),
		tokens:  tokens,
		logger:  logger,
	}
}

// Register builds the route table. Everything except login, health, metrics
// and document download requires a session token.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logging(r.logger))
	engine.Use(countRequests())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.POST("/login", r.account.Login)
	engine.GET("/uploads/absence_documents/:name", r.absence.Document)

	authed := engine.Group("/", middleware.Auth(r.tokens))

	authed.GET("/users/:id", r.account.Get)
	authed.PUT("/users/:id", r.account.UpdateProfile)
	authed.PUT("/users/:id/profile-picture", r.account.UpdateProfileImage)
	authed.PUT("/users/:id/password", r.account.ChangePassword)

	authed.GET("/students", r.roster.ListStudents)
	authed.POST("/students", r.roster.CreateStudent)
	authed.GET("/students/:id", r.roster.GetStudent)
	authed.PUT("/students/:id", r.roster.UpdateStudent)
	authed.DELETE("/students/:id", r.roster.DeleteStudent)
	authed.GET("/students/:id/absences", r.absence.ListByStudent)
	authed.GET("/students/:id/courses", r.roster.StudentCourses)

	authed.GET("/classes", r.roster.ListClasses)

	authed.GET("/courses", r.roster.ListCourses)
	authed.POST("/courses", r.roster.CreateCourse)
	authed.GET("/courses/:department/:year", r.roster.CoursesByDepartmentYear)
	authed.PUT("/courses/:id", r.roster.UpdateCourse)
	authed.DELETE("/courses/:id", r.roster.DeleteCourse)

	authed.GET("/absences", r.absence.List)
	authed.POST("/absences", r.absence.Create)
	authed.PATCH("/absences/:id", r.absence.Transition)

	return engine
}
