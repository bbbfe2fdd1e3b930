package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"legaldocs-backend/internal/bootstrap"
	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/processing"
	"legaldocs-backend/internal/queue"
	localstore "legaldocs-backend/internal/shared/storage/object/local"
	"legaldocs-backend/internal/summarizer"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type echoSummarizer struct{}

func (echoSummarizer) Summarize(ctx context.Context, file io.Reader, fileName, mediaType string) (summarizer.Result, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return summarizer.Result{}, err
	}
	return summarizer.Result{Plain: string(data)}, nil
}

type failingRepo struct {
	documents.Repo
}

func (failingRepo) MarkProcessing(ctx context.Context, documentID string) error {
	return errors.New("db down")
}

func testApp(t *testing.T, repo documents.Repo) *bootstrap.App {
	t.Helper()
	store := localstore.New(t.TempDir())
	return &bootstrap.App{
		Orchestrator: &processing.Orchestrator{
			Repo:       repo,
			Store:      store,
			Summarizer: echoSummarizer{},
		},
	}
}

func seedDocument(t *testing.T, app *bootstrap.App, repo documents.Repo) documents.Document {
	t.Helper()
	key, size, _, err := app.Orchestrator.Store.Save(context.Background(), "owner-1", "note.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	doc := documents.Document{
		ID:           "doc-1",
		OwnerID:      "owner-1",
		OriginalName: "note.txt",
		MediaType:    "text/plain",
		SizeBytes:    size,
		StorageKey:   key,
		Status:       documents.StatusUploaded,
		UploadedAt:   time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed repo: %v", err)
	}
	return doc
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	repo := documents.NewMemoryRepo()
	app := testApp(t, repo)
	doc := seedDocument(t, app, repo)

	client := &fakeSQS{}
	msgBody, _ := queue.EncodeMessage(queue.Message{DocumentID: doc.ID, RequestID: "req-1"})
	msg := sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(string(msgBody)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	got, _ := repo.GetByID(context.Background(), doc.ID)
	if got.Status != documents.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
}

func TestWorkerDoesNotDeleteOnInfraFailure(t *testing.T) {
	app := testApp(t, failingRepo{})

	client := &fakeSQS{}
	msgBody, _ := queue.EncodeMessage(queue.Message{DocumentID: "doc-2", RequestID: "req-2"})
	msg := sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	app := testApp(t, documents.NewMemoryRepo())

	client := &fakeSQS{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{broken"),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete of malformed message, got %d", len(client.deleted))
	}
}
