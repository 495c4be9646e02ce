package configstatus

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"github.com/nerrad567/gray-logic-configstatus/internal/events"
)

// DefaultKeyPrefix is prepended to every message key suffix.
const DefaultKeyPrefix = "config-status."

// eventSource tags events posted by the service.
const eventSource = "configstatus"

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Deps holds the collaborators of a Service.
type Deps struct {
	// Translations and Locales are required.
	Translations TranslationProvider
	Locales      LocaleProvider

	// Registry defaults to an empty registry.
	Registry *Registry

	// Publisher receives ConfigStatusInfoEvent notifications. Defaults to
	// events.Nop.
	Publisher events.Publisher

	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string

	Logger Logger
}

// Report is the outcome of one aggregation.
type Report struct {
	EntityID string
	Locale   language.Tag
	Info     *Info

	// Faults lists messages and providers excluded from Info, each
	// wrapping ErrMessageNotResolved, ErrInvalidMessage or
	// ErrProviderFailed.
	Faults []error
}

// Snapshot is the wire form of a report.
type Snapshot struct {
	EntityID string    `json:"entity_id"`
	Locale   string    `json:"locale"`
	Messages []Message `json:"messages"`
}

// Snapshot returns the report's wire form.
func (r *Report) Snapshot() Snapshot {
	msgs := r.Info.Messages()
	if msgs == nil {
		msgs = []Message{}
	}
	return Snapshot{EntityID: r.EntityID, Locale: r.Locale.String(), Messages: msgs}
}

// Service aggregates config status messages from registered providers and
// renders them for a locale.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The service keeps no
//     per-request state.
type Service struct {
	registry  *Registry
	resolver  *Resolver
	locales   LocaleProvider
	publisher events.Publisher
	keyPrefix string
	logger    Logger
}

// NewService wires a Service from deps.
func NewService(deps Deps) (*Service, error) {
	if deps.Translations == nil {
		return nil, fmt.Errorf("%w: translations", ErrMissingDependency)
	}
	if deps.Locales == nil {
		return nil, fmt.Errorf("%w: locales", ErrMissingDependency)
	}

	s := &Service{
		registry:  deps.Registry,
		resolver:  NewResolver(deps.Translations),
		locales:   deps.Locales,
		publisher: deps.Publisher,
		keyPrefix: deps.KeyPrefix,
		logger:    deps.Logger,
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.keyPrefix == "" {
		s.keyPrefix = DefaultKeyPrefix
	}
	if s.logger == nil {
		s.logger = noopLogger{}
	}
	return s, nil
}

// Registry returns the provider registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// AddProvider registers p and, if it is CallbackAware, hands it the
// service as its callback.
func (s *Service) AddProvider(p Provider) {
	if !registrable(p) {
		s.logger.Warn("config status provider rejected: not comparable", "provider", fmt.Sprintf("%T", p))
		return
	}
	if !s.registry.Add(p) {
		return
	}
	if ca, ok := p.(CallbackAware); ok {
		ca.SetConfigStatusCallback(s)
	}
	s.logger.Debug("config status provider added", "provider", fmt.Sprintf("%T", p))
}

// RemoveProvider unregisters p and clears its callback.
func (s *Service) RemoveProvider(p Provider) {
	if !s.registry.Remove(p) {
		return
	}
	if ca, ok := p.(CallbackAware); ok {
		ca.SetConfigStatusCallback(nil)
	}
	s.logger.Debug("config status provider removed", "provider", fmt.Sprintf("%T", p))
}

// GetConfigStatus returns the rendered status of entityID in locale.
// language.Und selects the default locale. When no provider supports the
// entity the result is (nil, ErrEntityNotFound); a supported entity with
// no messages yields an empty Info.
func (s *Service) GetConfigStatus(ctx context.Context, entityID string, locale language.Tag) (*Info, error) {
	report, err := s.Collect(ctx, entityID, locale)
	if err != nil {
		return nil, err
	}
	return report.Info, nil
}

// Collect aggregates the status of entityID and reports the faults that
// excluded individual messages or providers.
//
// Output is sorted by parameter name, severity, text and status code, so
// it does not depend on registration order.
func (s *Service) Collect(ctx context.Context, entityID string, locale language.Tag) (*Report, error) {
	providers := s.registry.ProvidersFor(entityID)
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	if locale == language.Und {
		locale = s.locales.Locale()
	}

	report := &Report{EntityID: entityID, Locale: locale}
	var resolved []Message

	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := pull(ctx, p)
		if err != nil {
			s.logger.Error("config status provider failed",
				"entity_id", entityID,
				"provider", fmt.Sprintf("%T", p),
				"error", err,
			)
			report.Faults = append(report.Faults, err)
			continue
		}

		bundle := bundleOf(p)
		for _, m := range raw {
			out, err := s.resolve(bundle, m, locale)
			if err != nil {
				s.logger.Error("config status message dropped",
					"entity_id", entityID,
					"parameter", m.ParameterName,
					"key", s.keyPrefix+m.MessageKeySuffix,
					"locale", locale.String(),
					"error", err,
				)
				report.Faults = append(report.Faults, err)
				continue
			}
			resolved = append(resolved, out)
		}
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].less(resolved[j])
	})
	report.Info = NewInfo(resolved...)
	return report, nil
}

// pull fetches a provider's raw messages, converting errors and panics
// into ErrProviderFailed.
func pull(ctx context.Context, p Provider) (msgs []Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			msgs = nil
			err = fmt.Errorf("%w: panic: %v", ErrProviderFailed, r)
		}
	}()

	msgs, err = p.ConfigStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}
	return msgs, nil
}

func (s *Service) resolve(bundle string, m Message, locale language.Tag) (Message, error) {
	if err := m.Validate(); err != nil {
		return Message{}, err
	}

	out := Message{
		ParameterName: m.ParameterName,
		Type:          m.Type,
		StatusCode:    m.StatusCode,
		Message:       m.Message,
	}
	if m.Resolved() {
		return out, nil
	}

	// An empty template counts as unresolved: a message without text cannot
	// be told apart from an unrendered one.
	text, ok := s.resolver.Resolve(bundle, s.keyPrefix, m.MessageKeySuffix, locale, m.Arguments...)
	if !ok {
		return Message{}, fmt.Errorf("%w: parameter %s key %s%s in bundle %s for locale %s",
			ErrMessageNotResolved, m.ParameterName, s.keyPrefix, m.MessageKeySuffix, bundle, locale)
	}
	if text == "" {
		return Message{}, fmt.Errorf("%w: parameter %s key %s%s in bundle %s for locale %s rendered empty text",
			ErrMessageNotResolved, m.ParameterName, s.keyPrefix, m.MessageKeySuffix, bundle, locale)
	}
	out.Message = text
	return out, nil
}

// PublishConfigStatus computes the status of entityID in the default
// locale and posts it as a ConfigStatusInfoEvent.
func (s *Service) PublishConfigStatus(ctx context.Context, entityID string) error {
	report, err := s.Collect(ctx, entityID, language.Und)
	if err != nil {
		return err
	}

	e, err := events.New(events.ConfigStatusInfoEvent, entityID, report.Snapshot(), eventSource)
	if err != nil {
		return err
	}
	if err := s.publisher.Post(ctx, e); err != nil {
		return fmt.Errorf("posting config status for %s: %w", entityID, err)
	}
	return nil
}

// ConfigUpdated implements Callback. Unknown entities are ignored and
// publish failures are logged.
func (s *Service) ConfigUpdated(ctx context.Context, source Source) {
	err := s.PublishConfigStatus(ctx, source.EntityID)
	switch {
	case err == nil:
		s.logger.Debug("config status published", "entity_id", source.EntityID)
	case errors.Is(err, ErrEntityNotFound):
		s.logger.Debug("config update for unknown entity ignored", "entity_id", source.EntityID)
	default:
		s.logger.Warn("config status publish failed", "entity_id", source.EntityID, "error", err)
	}
}
