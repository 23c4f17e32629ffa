package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/linchangchun1991/highmark-ai/internal/analysis"
	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	googleApiKey := os.Getenv("GOOGLE_API_KEY")
	if googleApiKey == "" {
		log.Fatal("empty GOOGLE_API_KEY in env")
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl == "" {
		log.Fatal("empty RABBITMQ_URL in env")
	}

	store := newBlobStore(ctx)
	board := jobstore.NewRepository(store)

	client, err := analysis.NewGeminiClient(ctx, googleApiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("failed to create model client: %v", err)
	}
	engine := analysis.NewEngine(client, board)

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err: %v", err)
	}

	workerConfig := WorkerConfig{
		Engine:     engine,
		Board:      board,
		RabbitURL:  rabbitmqUrl,
		RabbitConn: conn,
	}
	loadR2Config(ctx, &workerConfig)

	fmt.Println("Starting 3 workers consumer pool ")
	workerConfig.StartConsumerWorkerPool(3)
}

// newBlobStore picks the job-board backend from JOB_STORE: redis, postgres,
// or the in-memory default.
func newBlobStore(ctx context.Context) jobstore.BlobStore {
	switch os.Getenv("JOB_STORE") {
	case "redis":
		redisUrl := os.Getenv("REDIS_URL")
		if redisUrl == "" {
			log.Fatal("empty REDIS_URL in env")
		}
		store, err := jobstore.NewRedisStore(ctx, redisUrl)
		if err != nil {
			log.Fatalf("error connecting to redis job store: %v", err)
		}
		return store

	case "postgres":
		dbUrl := os.Getenv("DB_URL")
		if dbUrl == "" {
			log.Fatal("empty DB_URL in environment")
		}
		store, err := jobstore.NewPostgresStore(ctx, dbUrl)
		if err != nil {
			log.Fatalf("error opening db. err: %v", err)
		}
		return store

	default:
		log.Println("JOB_STORE not set, job board lives in memory only")
		return jobstore.NewMemoryStore()
	}
}

// loadR2Config wires object storage when the R2 variables are present.
// Without them the worker still runs; jobs must carry inline resume text.
func loadR2Config(ctx context.Context, workerConfig *WorkerConfig) {
	r2AccountId := os.Getenv("R2_ACCCOUNT_ID")
	r2Bucket := os.Getenv("R2_BUCKET")
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	if r2AccountId == "" || r2Bucket == "" || r2SecretKey == "" || r2AccessKey == "" {
		log.Println("R2 not fully configured, resume object downloads disabled")
		return
	}

	r2Config := R2Config{
		AccountID: r2AccountId,
		AccessKey: r2AccessKey,
		SecretKey: r2SecretKey,
		Bucket:    r2Bucket,
	}
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	workerConfig.R2 = &r2Config
	workerConfig.AwsConfig = &awsConfig
}
