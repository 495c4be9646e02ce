package configstatus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/text/language"

	"github.com/nerrad567/gray-logic-configstatus/internal/events"
	"github.com/nerrad567/gray-logic-configstatus/internal/i18n"
)

const (
	entity1 = "entity1"
	entity2 = "entity2"

	param1 = "param1"
	param2 = "param2"
	param3 = "param3"

	args = "args"
)

var (
	param1Msg1 = Information(param1).WithMessageKeySuffix("msg1")
	param2Msg2 = Warning(param2).WithMessageKeySuffix("msg2").WithStatusCode(1).WithArguments(args)
	param3Msg3 = Error(param3).WithMessageKeySuffix("msg3").WithStatusCode(2).WithArguments(args)
)

// fakeProvider supports a single entity and returns fixed messages.
type fakeProvider struct {
	entityID string
	messages []Message
	err      error
	panics   bool
	bundle   string

	mu       sync.Mutex
	callback Callback
}

func (p *fakeProvider) SupportsEntity(id string) bool { return id == p.entityID }

func (p *fakeProvider) ConfigStatus(context.Context) ([]Message, error) {
	if p.panics {
		panic("provider exploded")
	}
	return p.messages, p.err
}

type bundledProvider struct{ *fakeProvider }

func (p bundledProvider) Bundle() string { return p.bundle }

type callbackProvider struct{ *fakeProvider }

func (p callbackProvider) SetConfigStatusCallback(cb Callback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callback = cb
}

func (p callbackProvider) currentCallback() Callback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callback
}

func testTranslations() *i18n.Catalog {
	c := i18n.NewCatalog()
	c.AddTemplates(DefaultBundle, language.German, map[string]string{
		"config-status.msg1": "German 1",
		"config-status.msg2": "German 2 - {0}",
		"config-status.msg3": "German 3 - {0}",
	})
	c.AddTemplates(DefaultBundle, language.English, map[string]string{
		"config-status.msg1": "English 1",
		"config-status.msg2": "English 2 - {0}",
		"config-status.msg3": "English 3 - {0}",
	})
	return c
}

func newTestService(t *testing.T, publisher events.Publisher) *Service {
	t.Helper()

	svc, err := NewService(Deps{
		Translations: testTranslations(),
		Locales:      i18n.StaticLocaleProvider{Tag: language.AmericanEnglish},
		Publisher:    publisher,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

// newTwoEntityService registers one provider per test entity.
func newTwoEntityService(t *testing.T) *Service {
	t.Helper()

	svc := newTestService(t, nil)
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1, param2Msg2}})
	svc.AddProvider(&fakeProvider{entityID: entity2, messages: []Message{param2Msg2, param3Msg3}})
	return svc
}

func resolved(m Message, text string) Message {
	return Message{ParameterName: m.ParameterName, Type: m.Type, Message: text, StatusCode: m.StatusCode}
}

func TestService_UnknownEntity(t *testing.T) {
	svc := newTwoEntityService(t)

	for _, locale := range []language.Tag{language.Und, language.German, language.English} {
		info, err := svc.GetConfigStatus(context.Background(), "unknown", locale)
		if !errors.Is(err, ErrEntityNotFound) {
			t.Errorf("locale %v: error = %v, want ErrEntityNotFound", locale, err)
		}
		if info != nil {
			t.Errorf("locale %v: info = %v, want nil", locale, info)
		}
	}
}

func TestService_LocalizedMessages(t *testing.T) {
	svc := newTwoEntityService(t)

	tests := []struct {
		name   string
		entity string
		locale language.Tag
		want   *Info
	}{
		{
			name:   "entity1 de",
			entity: entity1,
			locale: language.German,
			want:   NewInfo(resolved(param1Msg1, "German 1"), resolved(param2Msg2, "German 2 - args")),
		},
		{
			name:   "entity2 de",
			entity: entity2,
			locale: language.German,
			want:   NewInfo(resolved(param2Msg2, "German 2 - args"), resolved(param3Msg3, "German 3 - args")),
		},
		{
			name:   "entity1 en",
			entity: entity1,
			locale: language.English,
			want:   NewInfo(resolved(param1Msg1, "English 1"), resolved(param2Msg2, "English 2 - args")),
		},
		{
			name:   "entity2 en",
			entity: entity2,
			locale: language.English,
			want:   NewInfo(resolved(param2Msg2, "English 2 - args"), resolved(param3Msg3, "English 3 - args")),
		},
		{
			name:   "default locale",
			entity: entity1,
			locale: language.Und,
			want:   NewInfo(resolved(param1Msg1, "English 1"), resolved(param2Msg2, "English 2 - args")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.GetConfigStatus(context.Background(), tt.entity, tt.locale)
			if err != nil {
				t.Fatalf("GetConfigStatus() error = %v", err)
			}
			if !info.Equal(tt.want) {
				t.Errorf("GetConfigStatus() = %v, want %v", info.Messages(), tt.want.Messages())
			}
		})
	}
}

func TestService_DefaultLocaleReported(t *testing.T) {
	svc := newTwoEntityService(t)

	report, err := svc.Collect(context.Background(), entity1, language.Und)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if report.Locale != language.AmericanEnglish {
		t.Errorf("Locale = %v, want en-US", report.Locale)
	}
	if len(report.Faults) != 0 {
		t.Errorf("Faults = %v, want none", report.Faults)
	}
}

func TestService_SupportedEntityWithoutMessages(t *testing.T) {
	svc := newTestService(t, nil)
	svc.AddProvider(&fakeProvider{entityID: entity1})

	info, err := svc.GetConfigStatus(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("GetConfigStatus() error = %v", err)
	}
	if info == nil {
		t.Fatal("info = nil, want empty Info")
	}
	if info.Len() != 0 {
		t.Errorf("Len() = %d, want 0", info.Len())
	}
}

func TestService_ProvidersUnionWithoutDeduplication(t *testing.T) {
	svc := newTestService(t, nil)
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1, param2Msg2}})
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param2Msg2, param3Msg3}})

	info, err := svc.GetConfigStatus(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("GetConfigStatus() error = %v", err)
	}

	want := NewInfo(
		resolved(param1Msg1, "English 1"),
		resolved(param2Msg2, "English 2 - args"),
		resolved(param2Msg2, "English 2 - args"),
		resolved(param3Msg3, "English 3 - args"),
	)
	if !info.Equal(want) {
		t.Errorf("GetConfigStatus() = %v, want %v", info.Messages(), want.Messages())
	}
}

func TestService_OrderIndependentOfRegistration(t *testing.T) {
	a := &fakeProvider{entityID: entity1, messages: []Message{param3Msg3, param1Msg1}}
	b := &fakeProvider{entityID: entity1, messages: []Message{param2Msg2}}

	collect := func(providers ...Provider) []Message {
		svc := newTestService(t, nil)
		for _, p := range providers {
			svc.AddProvider(p)
		}
		info, err := svc.GetConfigStatus(context.Background(), entity1, language.English)
		if err != nil {
			t.Fatalf("GetConfigStatus() error = %v", err)
		}
		return info.Messages()
	}

	first := collect(a, b)
	second := collect(b, a)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("got %d and %d messages, want 3", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("message %d differs: %v vs %v", i, first[i], second[i])
		}
	}
	wantOrder := []string{param1, param2, param3}
	for i, name := range wantOrder {
		if first[i].ParameterName != name {
			t.Errorf("message %d parameter = %s, want %s", i, first[i].ParameterName, name)
		}
	}
}

func TestService_UnresolvedKeyReported(t *testing.T) {
	svc := newTestService(t, nil)
	missing := Error("port").WithMessageKeySuffix("not.defined")
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1, missing}})

	report, err := svc.Collect(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !report.Info.Equal(NewInfo(resolved(param1Msg1, "English 1"))) {
		t.Errorf("Info = %v, want only the resolvable message", report.Info.Messages())
	}
	if len(report.Faults) != 1 || !errors.Is(report.Faults[0], ErrMessageNotResolved) {
		t.Errorf("Faults = %v, want one ErrMessageNotResolved", report.Faults)
	}
}

func TestService_EmptyTemplateReported(t *testing.T) {
	catalog := testTranslations()
	catalog.AddTemplates(DefaultBundle, language.English, map[string]string{
		"config-status.blank": "",
	})
	svc, err := NewService(Deps{
		Translations: catalog,
		Locales:      i18n.StaticLocaleProvider{Tag: language.English},
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	blank := Warning("label").WithMessageKeySuffix("blank")
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1, blank}})

	report, err := svc.Collect(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if !report.Info.Equal(NewInfo(resolved(param1Msg1, "English 1"))) {
		t.Errorf("Info = %v, want only the non-empty message", report.Info.Messages())
	}
	if len(report.Faults) != 1 || !errors.Is(report.Faults[0], ErrMessageNotResolved) {
		t.Errorf("Faults = %v, want one ErrMessageNotResolved", report.Faults)
	}
}

func TestService_NonComparableProviderIgnored(t *testing.T) {
	svc := newTestService(t, nil)

	svc.AddProvider(sliceProvider{ids: []string{entity1}})
	if svc.Registry().Len() != 0 {
		t.Errorf("Len() = %d, want 0", svc.Registry().Len())
	}
	svc.RemoveProvider(sliceProvider{ids: []string{entity1}})

	if _, err := svc.GetConfigStatus(context.Background(), entity1, language.English); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("error = %v, want ErrEntityNotFound", err)
	}
}

func TestService_FailingProvidersIsolated(t *testing.T) {
	svc := newTestService(t, nil)
	svc.AddProvider(&fakeProvider{entityID: entity1, err: errors.New("backend offline")})
	svc.AddProvider(&fakeProvider{entityID: entity1, panics: true})
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1}})

	report, err := svc.Collect(context.Background(), entity1, language.German)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !report.Info.Equal(NewInfo(resolved(param1Msg1, "German 1"))) {
		t.Errorf("Info = %v", report.Info.Messages())
	}
	if len(report.Faults) != 2 {
		t.Fatalf("Faults = %v, want 2", report.Faults)
	}
	for _, f := range report.Faults {
		if !errors.Is(f, ErrProviderFailed) {
			t.Errorf("fault %v does not wrap ErrProviderFailed", f)
		}
	}
}

func TestService_MessageForms(t *testing.T) {
	svc := newTestService(t, nil)
	preResolved := Warning("host").WithMessage("Host unreachable").WithStatusCode(7)
	invalid := Message{ParameterName: "x", Type: "DEBUG", MessageKeySuffix: "msg1"}
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{preResolved, invalid}})

	report, err := svc.Collect(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !report.Info.Equal(NewInfo(preResolved)) {
		t.Errorf("Info = %v, want pre-resolved message unchanged", report.Info.Messages())
	}
	if len(report.Faults) != 1 || !errors.Is(report.Faults[0], ErrInvalidMessage) {
		t.Errorf("Faults = %v, want one ErrInvalidMessage", report.Faults)
	}
}

func TestService_BundleProvider(t *testing.T) {
	catalog := testTranslations()
	catalog.AddTemplates("knx", language.English, map[string]string{
		"config-status.msg1": "KNX 1",
	})

	svc, err := NewService(Deps{
		Translations: catalog,
		Locales:      i18n.StaticLocaleProvider{Tag: language.English},
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.AddProvider(bundledProvider{&fakeProvider{entityID: entity1, bundle: "knx", messages: []Message{param1Msg1}}})

	info, err := svc.GetConfigStatus(context.Background(), entity1, language.English)
	if err != nil {
		t.Fatalf("GetConfigStatus() error = %v", err)
	}
	if !info.Equal(NewInfo(resolved(param1Msg1, "KNX 1"))) {
		t.Errorf("info = %v, want text from knx bundle", info.Messages())
	}
}

func TestService_KeyPrefix(t *testing.T) {
	catalog := i18n.NewCatalog()
	catalog.AddTemplates(DefaultBundle, language.English, map[string]string{"status.msg1": "Prefixed"})

	svc, err := NewService(Deps{
		Translations: catalog,
		Locales:      i18n.StaticLocaleProvider{Tag: language.English},
		KeyPrefix:    "status.",
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.AddProvider(&fakeProvider{entityID: entity1, messages: []Message{param1Msg1}})

	info, _ := svc.GetConfigStatus(context.Background(), entity1, language.Und)
	if !info.Equal(NewInfo(resolved(param1Msg1, "Prefixed"))) {
		t.Errorf("info = %v", info.Messages())
	}
}

func TestService_CancelledContext(t *testing.T) {
	svc := newTwoEntityService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetConfigStatus(ctx, entity1, language.English); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Post(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func TestService_CallbackLifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub)

	provider := callbackProvider{&fakeProvider{entityID: entity1, messages: []Message{param2Msg2}}}
	svc.AddProvider(provider)

	cb := provider.currentCallback()
	if cb == nil {
		t.Fatal("callback not set on AddProvider")
	}

	cb.ConfigUpdated(context.Background(), Source{EntityID: entity1})
	cb.ConfigUpdated(context.Background(), Source{EntityID: "unknown"})

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	e := pub.events[0]
	if e.Type != events.ConfigStatusInfoEvent || e.Subject != entity1 {
		t.Errorf("event = %v", e)
	}

	var snap Snapshot
	if err := e.DecodePayload(&snap); err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if snap.EntityID != entity1 || snap.Locale != "en-US" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Messages) != 1 || snap.Messages[0].Message != "English 2 - args" {
		t.Errorf("snapshot messages = %+v", snap.Messages)
	}

	svc.RemoveProvider(provider)
	if provider.currentCallback() != nil {
		t.Error("callback not cleared on RemoveProvider")
	}
}

func TestService_PublishConfigStatus(t *testing.T) {
	pubErr := errors.New("broker down")
	pub := &recordingPublisher{err: pubErr}
	svc := newTestService(t, pub)
	svc.AddProvider(&fakeProvider{entityID: entity1})

	if err := svc.PublishConfigStatus(context.Background(), "unknown"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown entity error = %v, want ErrEntityNotFound", err)
	}
	if err := svc.PublishConfigStatus(context.Background(), entity1); !errors.Is(err, pubErr) {
		t.Errorf("publish error = %v, want wrapped publisher error", err)
	}
}

func TestService_AddRemoveIdempotent(t *testing.T) {
	svc := newTestService(t, nil)
	p := &fakeProvider{entityID: entity1}

	svc.AddProvider(p)
	svc.AddProvider(p)
	if svc.Registry().Len() != 1 {
		t.Errorf("Len() = %d after double add, want 1", svc.Registry().Len())
	}

	svc.RemoveProvider(p)
	svc.RemoveProvider(p)
	if svc.Registry().Len() != 0 {
		t.Errorf("Len() = %d after double remove, want 0", svc.Registry().Len())
	}

	if _, err := svc.GetConfigStatus(context.Background(), entity1, language.English); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("error = %v, want ErrEntityNotFound after removal", err)
	}
}

func TestNewService_MissingDependencies(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
	}{
		{"no translations", Deps{Locales: i18n.StaticLocaleProvider{}}},
		{"no locales", Deps{Translations: i18n.NewCatalog()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(tt.deps); !errors.Is(err, ErrMissingDependency) {
				t.Errorf("NewService() error = %v, want ErrMissingDependency", err)
			}
		})
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(testTranslations())

	first, ok := r.Resolve(DefaultBundle, "config-status.", "msg2", language.German, args)
	if !ok || first != "German 2 - args" {
		t.Fatalf("Resolve() = (%q, %v)", first, ok)
	}
	second, _ := r.Resolve(DefaultBundle, "config-status.", "msg2", language.German, args)
	if first != second {
		t.Errorf("Resolve() not deterministic: %q vs %q", first, second)
	}

	if _, ok := r.Resolve(DefaultBundle, "config-status.", "msg9", language.German); ok {
		t.Error("Resolve() of unknown key should report not found")
	}
}
