package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"todobooks/internal/domain/errors"
	"todobooks/internal/logger"
	"todobooks/internal/metrics"
	"todobooks/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// api carries what both services share: the HTTP server, logger and metrics.
type api struct {
	httpSrv *http.Server
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func newAPI(cfg *Config, service string, log zerolog.Logger) api {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	return api{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log:     log.With().Str("service", service).Logger(),
		metrics: metrics.New(service),
	}
}

func (a *api) newRouter() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		RequestID(),
		logger.RequestLogger(a.log),
		a.metrics.Handler(),
		GzipRequestDecompress(),
		GzipResponseCompress(),
	)

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": errors.ErrMethodNotAllowed.Error()})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", a.metrics.Exposer())
	return router
}

// Start serves until Shutdown is called.
func (a *api) Start() error {
	if a.httpSrv == nil {
		return errors.ErrInternalServer
	}
	a.log.Info().Str("addr", a.httpSrv.Addr).Msg("http server listening")
	if err := a.httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *api) Shutdown(ctx context.Context) error {
	return a.httpSrv.Shutdown(ctx)
}

func (a *api) Handler() http.Handler {
	return a.httpSrv.Handler
}

// bindAndValidate decodes the JSON body into req and runs its checks. A body
// that cannot be decoded is reported as a validation failure on "body".
func bindAndValidate(ctx *gin.Context, req validation.Validatable) error {
	if err := ctx.ShouldBindJSON(req); err != nil {
		return validation.Errors{{Field: "body", Error: err.Error()}}
	}
	return req.Validate()
}

// respondError maps validation failures to 422, not-found sentinels to 404
// and everything else to 500.
func (a *api) respondError(ctx *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case stderrors.As(err, &verrs):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   errors.ErrValidationFailed.Error(),
			"details": verrs,
		})
	case stderrors.Is(err, errors.ErrTodoNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTodoNotFound.Error()})
	case stderrors.Is(err, errors.ErrBookNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrBookNotFound.Error()})
	default:
		_ = ctx.Error(err)
		a.log.Error().Err(err).Str("path", ctx.FullPath()).Msg("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
	}
}
