package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/portfolio-site/portfolio-backend/config"
	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/bootstrap"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/content"
	fb "github.com/portfolio-site/portfolio-backend/internal/platform/firebase"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/mirror"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/repository"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/service"
	"github.com/portfolio-site/portfolio-backend/internal/revalidate"
	"github.com/portfolio-site/portfolio-backend/internal/uploads"
)

const serviceName = "portfolio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log := common.NewLogger(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients := fb.Resolve(ctx, cfg.Firebase, log)
	defer clients.Close()

	var primary repository.Primary
	if clients.FirestoreReady() {
		primary = repository.NewFirestoreRepo(clients.Firestore)
	}
	mirrorStore := repository.NewLocalStore(cfg.App.DataDir)
	store := repository.NewStore(primary, mirrorStore, log)

	var invalidator revalidate.Invalidator = revalidate.NoopInvalidator{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		invalidator = revalidate.NewRedisInvalidator(rdb)
		defer rdb.Close()
	}
	pages := revalidate.NewDispatcher(invalidator, log)

	pipeline := uploads.NewPipeline(log, buildDestinations(ctx, cfg, clients, log)...)

	companies := service.NewCompanyService(store, pages, log)
	projects := service.NewProjectService(store, pages, log)
	contentStore := content.NewStore(clients.Firestore, cfg.App.DataDir, log)
	session := auth.NewSession(cfg.Admin, cfg.IsProduction())

	refresh := mirror.NewScheduler(primary, mirrorStore, cfg.Mirror.SyncSpec, log)
	refresh.Start()
	defer refresh.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Cfg:         cfg,
		Log:         log,
		Clients:     clients,
		Companies:   companies,
		Projects:    projects,
		Pages:       pages,
		Pipeline:    pipeline,
		Content:     contentStore,
		Session:     session,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			// unblock main so the deferred cleanup runs
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

// buildDestinations assembles the upload fallback chain for the current
// environment: primary GCS candidates, an optional S3 bucket, then local
// disk in development or the temporary relay in production.
func buildDestinations(ctx context.Context, cfg *config.Config, clients *fb.Clients, log *common.Logger) []uploads.Destination {
	var destinations []uploads.Destination

	if clients.StorageReady() {
		destinations = append(destinations, uploads.NewGCSDestination(clients, cfg.Firebase.StorageBucketAlt, log))
	}

	if cfg.S3.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
			),
		)
		if err != nil {
			log.Warn().Err(err).Msg("s3 configuration invalid, skipping s3 destination")
		} else {
			client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
				if cfg.S3.Endpoint != "" {
					o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
					o.UsePathStyle = true
				}
			})
			destinations = append(destinations, uploads.NewS3Destination(client, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint))
		}
	}

	if cfg.IsProduction() {
		destinations = append(destinations, uploads.NewRelayDestination(cfg.Relay.BaseURL))
	} else {
		destinations = append(destinations, uploads.NewLocalDestination(cfg.App.PublicDir))
	}

	return destinations
}
