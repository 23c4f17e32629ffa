package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/linchangchun1991/highmark-ai/internal/analysis"
)

// retry retries a function up to `attempts` times with exponential backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// resolvePayload turns a queued job into a resume payload, downloading the
// object from R2 when the job carries an object key instead of inline text.
func resolvePayload(ctx context.Context, job AnalysisJob, workerConfig *WorkerConfig) (analysis.ResumePayload, error) {
	if job.ResumeObjectKey == "" {
		return analysis.NormalizeText(job.ResumeText)
	}
	if workerConfig.R2 == nil {
		return analysis.ResumePayload{}, fmt.Errorf("job %s carries an object key but no object storage is configured", job.ID)
	}

	client := workerConfig.r2Client()
	fileBytes, err := retry(3, func() ([]byte, error) {
		return DownloadFromR2(ctx, client, workerConfig.R2.Bucket, job.ResumeObjectKey)
	})
	if err != nil {
		return analysis.ResumePayload{}, fmt.Errorf("file download error: %w", err)
	}
	return analysis.NormalizeBinary(job.Mime, fileBytes)
}

// runAnalysis executes one queued job against the engine. Only transport
// failures are retried; every other kind fails the job immediately.
func runAnalysis(ctx context.Context, job AnalysisJob, workerConfig *WorkerConfig) (*analysis.Result, error) {
	payload, err := resolvePayload(ctx, job, workerConfig)
	if err != nil {
		return nil, err
	}

	var jc analysis.JobContext
	if job.UseJobBoard {
		jc = analysis.CorpusContext(nil)
	} else {
		jc = analysis.InlineContext(job.JobContext)
	}
	request := analysis.Request{Resume: payload, Context: jc}

	result, err := workerConfig.Engine.Analyze(ctx, request)
	for attempt := 0; attempt < 2 && analysis.IsKind(err, analysis.KindTransport); attempt++ {
		time.Sleep(time.Duration(500*(attempt+1)) * time.Millisecond)
		result, err = workerConfig.Engine.Analyze(ctx, request)
	}
	return result, err
}

func statusUpdate(job AnalysisJob, status, message string) map[string]any {
	return map[string]any{
		"analysis_id": job.ID,
		"status":      status,
		"message":     message,
		"timestamp":   time.Now(),
	}
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()

	conn, err := amqp.Dial(workerConfig.RabbitURL)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		"analyses", // queue name
		true,       // durable (survives broker restarts)
		false,      // auto-delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		"analyses", // queue name
		"",         // consumer tag
		true,       // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		job := AnalysisJob{}
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Printf("error unmarshalling message body. err: %v", err)
			continue
		}
		log.Printf("Worker %d processing analysis. analysis_id: %s", id+1, job.ID)

		if err := publishAnalysisUpdate(workerConfig.RabbitConn, job.ID.String(), statusUpdate(job, "processing", "analysis started")); err != nil {
			log.Println("failed to publish update:", err)
		}

		result, err := runAnalysis(context.Background(), job, workerConfig)
		if err != nil {
			kind, typed := analysis.KindOf(err)
			message := "analysis failed"
			if typed {
				message = kind.UserMessage()
			}
			// Kind and detail only; résumé content never reaches the log
			// or the update payload.
			log.Printf("analysis failed. analysis_id: %s err: %v", job.ID, err)
			update := statusUpdate(job, "failed", message)
			if typed {
				update["error_kind"] = kind.String()
			}
			if err := publishAnalysisUpdate(workerConfig.RabbitConn, job.ID.String(), update); err != nil {
				log.Println("failed to publish update:", err)
			}
			continue
		}

		update := statusUpdate(job, "completed", "analysis completed")
		update["result"] = result
		if err := publishAnalysisUpdate(workerConfig.RabbitConn, job.ID.String(), update); err != nil {
			log.Println("failed to publish update:", err)
		}
		log.Printf("analysis_id: %s analyzed", job.ID)
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
