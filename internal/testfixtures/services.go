package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/calendar"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) defaults(idGen func() string, now func() time.Time) (func() string, func() time.Time) {
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return idGen, now
}

// SessionServiceDeps captures dependencies for constructing a session service.
type SessionServiceDeps struct {
	Sessions          application.SessionRepository
	Catalog           application.ResourceCatalog
	IDGenerator       func() string
	Now               func() time.Time
	MaxRecurrenceDays int
	Logger            *slog.Logger
}

// NewSessionService builds a session service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewSessionService(deps SessionServiceDeps) *application.SessionService {
	idGen, now := f.defaults(deps.IDGenerator, deps.Now)
	return application.NewSessionServiceWithLogger(
		deps.Sessions,
		deps.Catalog,
		idGen,
		now,
		deps.MaxRecurrenceDays,
		deps.Logger,
	)
}

// DirectoryServiceDeps captures dependencies for constructing a directory service.
type DirectoryServiceDeps struct {
	Directory   application.DirectoryRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewDirectoryService builds a directory service using the supplied dependencies.
func (f *ServiceFactory) NewDirectoryService(deps DirectoryServiceDeps) *application.DirectoryService {
	idGen, now := f.defaults(deps.IDGenerator, deps.Now)
	return application.NewDirectoryServiceWithLogger(
		deps.Directory,
		idGen,
		now,
		deps.Logger,
	)
}

// CalendarServiceDeps captures dependencies for constructing a calendar
// service. Nil slot tables fall back to the default grid.
type CalendarServiceDeps struct {
	Sessions  application.SessionRepository
	Directory application.DirectorySource
	DayGrid   *calendar.SlotTable
	WeekGrid  *calendar.SlotTable
	Now       func() time.Time
	Logger    *slog.Logger
}

// NewCalendarService builds a calendar service using the supplied dependencies.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	_, now := f.defaults(nil, deps.Now)
	return application.NewCalendarServiceWithLogger(
		deps.Sessions,
		deps.Directory,
		deps.DayGrid,
		deps.WeekGrid,
		now,
		deps.Logger,
	)
}
