package main

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/linchangchun1991/highmark-ai/internal/analysis"
	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type WorkerConfig struct {
	Engine *analysis.Engine
	Board  *jobstore.Repository
	// R2 is nil when no object storage is configured; jobs must then carry
	// resume_text inline.
	R2         *R2Config
	AwsConfig  *aws.Config
	RabbitURL  string
	RabbitConn *amqp.Connection
}

// AnalysisJob is one queued request. Either ResumeText or
// ResumeObjectKey+Mime is set; UseJobBoard switches to closed-corpus mode and
// ignores JobContext.
type AnalysisJob struct {
	ID              uuid.UUID `json:"id"`
	ResumeText      string    `json:"resume_text,omitempty"`
	ResumeObjectKey string    `json:"resume_object_key,omitempty"`
	Mime            string    `json:"mime,omitempty"`
	JobContext      string    `json:"job_context,omitempty"`
	UseJobBoard     bool      `json:"use_job_board"`
}
