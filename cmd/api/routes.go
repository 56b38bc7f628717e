package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(app.requestLogger())
	r.Use(app.metricsMiddleware())
	r.Use(app.corsMiddleware())
	r.Use(app.rateLimit())

	r.GET("/health", app.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// candidate evaluation
	r.GET("/avaliacao/:companyId", app.Handler.StartEvaluation)
	p := r.Group("/p")
	{
		p.GET("/obrigado", app.Handler.Thanks)
		p.GET("/:token", app.Handler.GetEvaluation)
		p.DELETE("/:token", app.Handler.AbandonEvaluation)
		p.PUT("/:token/answers/:questionId", app.Handler.SaveAnswer)
		p.POST("/:token/next", app.Handler.NextStep)
		p.POST("/:token/previous", app.Handler.PreviousStep)
		p.POST("/:token/submit", app.Handler.SubmitEvaluation)
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)
		v1.POST("/chat", app.Handler.Chat)
		v1.POST("/contact", app.Handler.Contact)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)

		// company routes
		protected.GET("/company", app.Handler.GetCompany)
		protected.POST("/company", app.Handler.CreateCompany)
		protected.PUT("/company", app.Handler.UpdateCompany)
		protected.GET("/company/questions", app.Handler.ListCompanyQuestions)
		protected.GET("/company/answers", app.Handler.GetCompanyAnswers)
		protected.PUT("/company/answers", app.Handler.UpsertCompanyAnswers)
		protected.GET("/company/evaluation-link", app.Handler.EvaluationLink)

		// people and matches
		protected.GET("/people", app.Handler.ListPeople)
		protected.GET("/people/:id", app.Handler.GetPerson)
		protected.POST("/matches", app.Handler.CreateMatch)
		protected.GET("/matches", app.Handler.ListMatches)
		protected.GET("/matches/:id", app.Handler.GetMatch)
		protected.GET("/dashboard", app.Handler.Dashboard)
	}

	return r
}

func (app *application) health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}
	if app.DB != nil {
		if err := app.DB.Ping(ctx); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if app.Redis != nil {
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, checks)
}
