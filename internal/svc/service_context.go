package svc

import (
	"context"
	"fmt"
	"time"

	"collabnote/config"
	"collabnote/internal/infra/ai"
	"collabnote/internal/infra/cache"
	"collabnote/internal/infra/db"
	"collabnote/internal/infra/storage"
	"collabnote/internal/infra/vector"
	"collabnote/internal/middleware"
	"collabnote/internal/mq"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	serviceName      = "collabnote"
	notesCollection  = "notes_collection"
	embeddingVectorN = 1536
)

// ServiceContext owns every client the process opens. Only DB is mandatory;
// the others are nil when their backend could not be reached or is not
// configured, and callers must check before use.
type ServiceContext struct {
	Config   *config.Config
	DB       *gorm.DB
	Cache    *cache.RedisCache
	Rabbit   *mq.RabbitMQ
	AI       *ai.AIService
	Qdrant   *vector.QdrantService
	Minio    *storage.FileStorage
	Consumer *mq.Consumer

	tracerProvider *trace.TracerProvider
}

// NewServiceContext opens the database, migrates it and connects the
// optional backends.
func NewServiceContext(cfg *config.Config) (*ServiceContext, error) {
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sc := &ServiceContext{Config: cfg, DB: conn}

	if rdb, err := cache.New(cfg); err != nil {
		zap.L().Warn("Redis connection failed, continuing without cache", zap.Error(err))
	} else {
		zap.L().Info("Redis connected successfully")
		sc.Cache = rdb
	}

	if rabbit, err := mq.New(cfg); err != nil {
		zap.L().Warn("RabbitMQ connection failed, note events disabled", zap.Error(err))
	} else {
		sc.Rabbit = rabbit
	}

	if cfg.AIAPIKey != "" {
		sc.AI = ai.NewAIService(cfg)
	} else {
		zap.L().Info("AI_API_KEY not set, title suggestions and semantic search disabled")
	}

	if sc.AI != nil {
		if q, err := vector.NewQdrantService(cfg.QdrantHost, cfg.QdrantPort, notesCollection, cfg.QdrantAPIKey, embeddingVectorN); err != nil {
			zap.L().Warn("Qdrant connection failed, semantic search disabled", zap.Error(err))
		} else {
			sc.Qdrant = q
		}
	}

	if sc.Rabbit != nil && sc.AI != nil && sc.Qdrant != nil {
		sc.Consumer = mq.NewConsumer(sc.Rabbit, sc.AI, sc.Qdrant)
	}

	if fs, err := storage.NewFileStorage(
		cfg.MinioEndpoint,
		cfg.MinioPublicURL,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
	); err != nil {
		zap.L().Warn("MinIO unavailable, image uploads disabled", zap.Error(err))
	} else {
		sc.Minio = fs
	}

	if cfg.JaegerEndpoint != "" {
		tp, err := middleware.InitTracer(serviceName, cfg.AppEnv, cfg.JaegerEndpoint)
		if err != nil {
			zap.L().Warn("tracer init failed, spans will not be exported", zap.Error(err))
		} else {
			sc.tracerProvider = tp
		}
	}

	return sc, nil
}

// Close releases every client in reverse order of opening.
func (s *ServiceContext) Close() {
	if s.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tracerProvider.Shutdown(ctx); err != nil {
			zap.L().Error("Tracer shutdown error", zap.Error(err))
		}
	}

	if s.Qdrant != nil {
		if err := s.Qdrant.Close(); err != nil {
			zap.L().Error("Qdrant close error", zap.Error(err))
		}
	}

	if s.Rabbit != nil {
		s.Rabbit.Close()
		zap.L().Info("RabbitMQ closed")
	}

	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			zap.L().Error("Redis close error", zap.Error(err))
		}
	}

	if s.DB != nil {
		if err := db.Close(s.DB); err != nil {
			zap.L().Error("database close error", zap.Error(err))
		}
	}
}
