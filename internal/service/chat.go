package service

import (
	"context"
	"errors"

	"plesir/internal/domain"
	"plesir/internal/gemini"
	"plesir/internal/memory"
	"plesir/internal/observability"
	"plesir/internal/prompt"
)

// Options tunes per-turn retrieval and prompt assembly.
type Options struct {
	TopK         int
	Threshold    float64
	MemoryWindow int
}

// ChatService runs one conversation turn end to end: retrieve catalog
// context, compose the prompt with recent memory, call the completion
// service, and record both sides of the exchange in the transcript.
type ChatService struct {
	retriever domain.Retriever
	composer  *prompt.Composer
	completer domain.Completer
	metrics   *observability.Metrics
	opts      Options
}

// New assembles a chat service. metrics may be nil.
func New(retriever domain.Retriever, composer *prompt.Composer, completer domain.Completer, metrics *observability.Metrics, opts Options) *ChatService {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.MemoryWindow <= 0 {
		opts.MemoryWindow = 6
	}
	return &ChatService{
		retriever: retriever,
		composer:  composer,
		completer: completer,
		metrics:   metrics,
		opts:      opts,
	}
}

// Ask answers one user query against the given transcript. The returned
// reply is always displayable: completion failures are converted into an
// apology message here and never propagate past the turn boundary, so
// the session stays usable. The underlying error is also returned for
// logging; a non-nil error never means an unusable reply.
func (s *ChatService) Ask(ctx context.Context, transcript *memory.Transcript, query string) (string, error) {
	retrieval := s.retriever.Search(query, s.opts.TopK, s.opts.Threshold)
	window := transcript.Recent(s.opts.MemoryWindow)
	composed := s.composer.Compose(query, retrieval, window)

	transcript.Append(domain.Turn{Role: domain.RoleUser, Text: query})

	reply, err := s.completer.Complete(ctx, composed)
	if err != nil {
		reply = apologyFor(err)
	}
	transcript.Append(domain.Turn{Role: domain.RoleAssistant, Text: reply})

	if s.metrics != nil {
		s.metrics.TurnsTotal.Inc()
		outcome := "fallback"
		if retrieval.Relevant {
			outcome = "grounded"
		}
		s.metrics.RetrievalOutcome.WithLabelValues(outcome).Inc()
		if err != nil {
			s.metrics.CompletionErrors.WithLabelValues(errorKind(err)).Inc()
		}
	}
	return reply, err
}

// apologyFor maps a completion failure to the assistant-visible reply.
func apologyFor(err error) string {
	switch {
	case errors.Is(err, gemini.ErrAuth):
		return "Waduh, koneksi ke layanan AI ditolak karena masalah kredensial. Coba cek API key-nya, lalu tanya lagi ya."
	case errors.Is(err, gemini.ErrModelUnavailable):
		return "Waduh, model AI yang dipakai lagi tidak tersedia. Coba lagi sebentar lagi ya."
	case errors.Is(err, gemini.ErrMalformedResponse):
		return "Waduh, jawaban dari layanan AI tidak bisa dibaca. Coba tanya sekali lagi ya."
	default:
		return "Waduh, lagi ada gangguan koneksi ke layanan AI. Coba tanya lagi sebentar lagi ya."
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, gemini.ErrAuth):
		return "auth"
	case errors.Is(err, gemini.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, gemini.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, gemini.ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "other"
	}
}
