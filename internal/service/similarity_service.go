package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"semsim-be/internal/dto"
	"semsim-be/internal/pkg/logger"
	"semsim-be/internal/repository/memory"
	"semsim-be/pkg/extractor"
	"semsim-be/pkg/store"
)

var (
	// ErrInvalidElements rejects element-name lists that are not
	// space-separated XML names.
	ErrInvalidElements = errors.New("invalid elements parameter")
	// ErrInvalidThreshold rejects similarity thresholds outside (0, 1].
	ErrInvalidThreshold = errors.New("threshold must be within (0, 1]")
)

// Element names: start with a letter or '_', then letters, digits, '-', '_'.
// Multiple names separated by whitespace.
var elementNamesPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*(\s+[a-zA-Z_][a-zA-Z0-9_-]*)*$`)

type ISimilarityService interface {
	// Submit validates the parameters and document synchronously, creates a
	// session and schedules the pipeline. Returns the new session id.
	Submit(ctx context.Context, xmlContent string, elements string, threshold *float64) (string, error)
	// GetStatus returns the session's current status, or found=false for an
	// unknown or expired session.
	GetStatus(sessionID string) (store.ProcessingStatus, bool)
	// GetResults returns the similarity groups together with the status that
	// produced them. Groups are non-nil only once the status is
	// StatusCompleted.
	GetResults(sessionID string) ([][]string, store.ProcessingStatus, bool)
}

type similarityService struct {
	sessionRepo      *memory.SessionRepository
	publisherService IPublisherService
	log              logger.ILogger
}

func NewSimilarityService(
	sessionRepo *memory.SessionRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) ISimilarityService {
	return &similarityService{
		sessionRepo:      sessionRepo,
		publisherService: publisherService,
		log:              log,
	}
}

func (s *similarityService) Submit(ctx context.Context, xmlContent string, elements string, threshold *float64) (string, error) {
	// Cheap local validation first; nothing is allocated for bad requests.
	if !elementNamesPattern.MatchString(elements) {
		return "", fmt.Errorf("%w: %q", ErrInvalidElements, elements)
	}
	if threshold != nil && (*threshold <= 0 || *threshold > 1) {
		return "", fmt.Errorf("%w: got %v", ErrInvalidThreshold, *threshold)
	}

	// Parse before creating the session so malformed documents are a
	// synchronous 400-class failure; the pipeline only ever sees documents
	// that already parsed.
	doc, err := extractor.BuildWorkingCopy(xmlContent, elements)
	if err != nil {
		return "", err
	}

	workingCopy, err := doc.WriteToString()
	if err != nil {
		return "", err
	}

	session := s.sessionRepo.Create()
	s.log.Info("similarity", "Starting async processing", map[string]interface{}{
		"session_id": session.ID,
		"elements":   elements,
	})

	payload, err := json.Marshal(dto.ProcessDocumentMessage{
		SessionId:  session.ID,
		XmlContent: workingCopy,
		Elements:   elements,
		Threshold:  threshold,
	})
	if err != nil {
		s.sessionRepo.Delete(session.ID)
		return "", err
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.sessionRepo.Delete(session.ID)
		return "", err
	}

	return session.ID, nil
}

func (s *similarityService) GetStatus(sessionID string) (store.ProcessingStatus, bool) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return "", false
	}
	return session.Status(), true
}

func (s *similarityService) GetResults(sessionID string) ([][]string, store.ProcessingStatus, bool) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, "", false
	}

	status := session.Status()
	if status != store.StatusCompleted {
		return nil, status, true
	}
	return session.Groups(), status, true
}
