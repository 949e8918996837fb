package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"

	_ "github.com/voxcards/backend/docs"
	"github.com/voxcards/backend/internal/agents"
	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/gateway"
	"github.com/voxcards/backend/internal/sampler"
	"github.com/voxcards/backend/internal/session"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideAgentRegistry() *agents.Registry {
	return agents.NewRegistry()
}

func ProvideSamplerConfig(cfg *Config) sampler.Config {
	return sampler.Config{
		FrameRate:        cfg.SamplerFrameRate,
		Quality:          cfg.SamplerQuality,
		MaxWidth:         cfg.SamplerMaxWidth,
		MaxHeight:        cfg.SamplerMaxHeight,
		ChangeThreshold:  cfg.SamplerChangeThreshold,
		MinFrameInterval: cfg.SamplerMinFrameInterval,
	}
}

func ProvideTokenService(cfg *Config) *gateway.TokenService {
	return gateway.NewTokenService(cfg.RealtimeAPIURL, cfg.RealtimeAPIKey, cfg.RealtimeModel, cfg.RealtimeVoice)
}

func ProvideShareManager(
	lc fx.Lifecycle,
	samplerCfg sampler.Config,
	framesStore *frames.Store,
	sessionStore *session.Store,
	logger *slog.Logger,
) *gateway.ShareManager {
	m := gateway.NewShareManager(samplerCfg, framesStore, sessionStore, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			m.Close()
			return nil
		},
	})
	return m
}

func ProvideWSServer(shares *gateway.ShareManager, logger *slog.Logger) *gateway.WSServer {
	return gateway.NewWSServer(shares, logger)
}

func ProvideDispatcher(
	cardStore *card.Store,
	framesStore *frames.Store,
	sessionStore *session.Store,
	registry *agents.Registry,
	logger *slog.Logger,
) *gateway.Dispatcher {
	return gateway.NewDispatcher(cardStore, framesStore, sessionStore, registry, logger)
}

func ProvideGatewayHandler(
	tokens *gateway.TokenService,
	dispatcher *gateway.Dispatcher,
	shares *gateway.ShareManager,
	ws *gateway.WSServer,
	registry *agents.Registry,
	cardStore *card.Store,
	framesStore *frames.Store,
	logger *slog.Logger,
) *gateway.Handler {
	return gateway.NewHandler(tokens, dispatcher, shares, ws, registry, cardStore, framesStore, logger.With("handler", "gateway"))
}

func ProvideCardHandler(store *card.Store, logger *slog.Logger) *card.Handler {
	return card.NewHandler(store, logger.With("handler", "card"))
}

func ProvideSessionHandler(store *session.Store, cardStore *card.Store, logger *slog.Logger) *session.Handler {
	return session.NewHandler(store, cardStore, logger.With("handler", "session"))
}

type HandlerParams struct {
	fx.In

	CardHandler    *card.Handler
	SessionHandler *session.Handler
	GatewayHandler *gateway.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.CardHandler.RegisterRoutes(api)
	params.SessionHandler.RegisterRoutes(api.Group("/sessions"))
	params.GatewayHandler.RegisterRoutes(api)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideAgentRegistry,
		ProvideSamplerConfig,
		ProvideTokenService,
		ProvideShareManager,
		ProvideWSServer,
		ProvideDispatcher,
		ProvideGatewayHandler,
		ProvideCardHandler,
		ProvideSessionHandler,
	),
	fx.Invoke(RegisterRoutes),
)
