package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/session"
)

func ProvideCardStore(db *gorm.DB) *card.Store {
	return card.NewStore(db)
}

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func ProvideFramesStore(redisClient *redis.Client, cfg *Config) *frames.Store {
	return frames.NewStore(redisClient, cfg.FrameTTL)
}

func RunMigrations(cardStore *card.Store) error {
	return cardStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideCardStore,
		ProvideSessionStore,
		ProvideFramesStore,
	),
	fx.Invoke(RunMigrations),
)
