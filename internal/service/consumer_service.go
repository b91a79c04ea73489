package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/beevik/etree"

	"semsim-be/internal/dto"
	"semsim-be/internal/pkg/logger"
	"semsim-be/internal/repository/memory"
	"semsim-be/pkg/embedding"
	"semsim-be/pkg/extractor"
	"semsim-be/pkg/similarity"
	"semsim-be/pkg/store"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the processing topic with a fixed number of worker
// goroutines. All workers read the same subscription channel, so dispatch is
// FIFO and at most workerCount documents are embedded and grouped at once.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	workerCount       int
	defaultThreshold  float64
	vectorSize        int
	sessionRepo       *memory.SessionRepository
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	workerCount int,
	defaultThreshold float64,
	vectorSize int,
	sessionRepo *memory.SessionRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	if workerCount < 1 {
		workerCount = 1
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		workerCount:       workerCount,
		defaultThreshold:  defaultThreshold,
		vectorSize:        vectorSize,
		sessionRepo:       sessionRepo,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	for i := 0; i < cs.workerCount; i++ {
		go func() {
			for msg := range messages {
				// Ack on dequeue: gochannel withholds the next message until
				// the current one is acked, which would serialize the pool.
				// There is no redelivery policy anyway; failures end up as
				// the session's terminal status, never as a retry.
				msg.Ack()
				cs.processMessage(ctx, msg)
			}
		}()
	}

	return nil
}

// processMessage runs one full pipeline. Nothing may escape this boundary:
// every failure is converted into the session's terminal status.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	session, found := cs.sessionRepo.Get(payload.SessionId)
	if !found {
		cs.log.Warn("consumer", "Session not found or expired", map[string]interface{}{
			"session_id": payload.SessionId,
		})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			cs.log.Error("consumer", "Pipeline panicked", map[string]interface{}{
				"session_id": payload.SessionId,
				"panic":      fmt.Sprint(r),
			})
			session.SetStatus(store.StatusError)
		}
	}()

	fragments, groups, status := cs.runPipeline(ctx, &payload)
	if status != store.StatusCompleted {
		session.SetStatus(status)
		return
	}

	// A slow pipeline finishing after its session expired must not resurrect
	// it; results for an evicted session are dropped.
	if _, live := cs.sessionRepo.Get(payload.SessionId); !live {
		cs.log.Warn("consumer", "Session expired during processing, dropping results", map[string]interface{}{
			"session_id": payload.SessionId,
		})
		return
	}

	session.Complete(fragments, groups)
	cs.log.Info("consumer", "Completed processing", map[string]interface{}{
		"session_id": payload.SessionId,
		"fragments":  len(fragments),
		"groups":     len(groups),
	})
}

func (cs *consumerService) runPipeline(ctx context.Context, payload *dto.ProcessDocumentMessage) ([]store.Fragment, [][]string, store.ProcessingStatus) {
	// 1. Re-parse the working copy. It already parsed once at submission, so
	// a failure here is an internal error, not bad input.
	doc := etree.NewDocument()
	if err := doc.ReadFromString(payload.XmlContent); err != nil {
		cs.log.Error("consumer", "Failed to parse working copy", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return nil, nil, store.StatusError
	}

	// 2. Extract fragment texts.
	texts := extractor.ExtractTexts(doc, payload.Elements)
	cs.log.Info("consumer", "Extracted text fragments", map[string]interface{}{
		"session_id": payload.SessionId,
		"count":      len(texts),
	})
	if len(texts) == 0 {
		return nil, nil, store.StatusNoFragmentsExtracted
	}

	// 3. Embed each fragment. A provider failure fails the whole session;
	// substituting zero vectors would silently report "dissimilar to
	// everything" instead of surfacing the outage.
	fragments := make([]store.Fragment, 0, len(texts))
	for _, text := range texts {
		vector, err := cs.embeddingProvider.Embed(ctx, text)
		if err != nil {
			cs.log.Error("consumer", "Embedding failed", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
			return nil, nil, store.StatusError
		}
		if len(vector) != cs.vectorSize {
			cs.log.Error("consumer", "Embedding dimension mismatch", map[string]interface{}{
				"session_id": payload.SessionId,
				"expected":   cs.vectorSize,
				"got":        len(vector),
			})
			return nil, nil, store.StatusError
		}
		fragments = append(fragments, store.Fragment{Text: text, Vector: vector})
	}

	// 4. Group.
	threshold := cs.defaultThreshold
	if payload.Threshold != nil {
		threshold = *payload.Threshold
	}
	groups, err := similarity.Group(fragments, threshold)
	if err != nil {
		cs.log.Error("consumer", "Grouping failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return nil, nil, store.StatusError
	}

	return fragments, groups, store.StatusCompleted
}
