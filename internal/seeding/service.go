// Package seeding populates the database with reference and sample data and
// provisions super-admin accounts.
package seeding

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/store"
)

// Locker serialises seeding across processes. Acquire reports ok=false when
// another holder owns key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// Publisher emits seeder events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Option configures a Service.
type Option func(*Service)

// WithLocker enables the cross-process seed lock.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithPublisher enables event publishing.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSecretFunc overrides how the admin secret is looked up. The default
// reads ADMIN_SECRET from the environment on every call.
func WithSecretFunc(fn func() string) Option {
	return func(s *Service) { s.secret = fn }
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service is the seeding and bootstrap service.
type Service struct {
	store     *store.Store
	locker    Locker
	publisher Publisher
	secret    func() string
	lockTTL   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
	runs      metric.Int64Counter
}

// New constructs a Service over st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:   st,
		secret:  func() string { return os.Getenv("ADMIN_SECRET") },
		lockTTL: 2 * time.Minute,
		logger:  slog.Default(),
		tracer:  otel.Tracer("arc-seeder"),
	}
	for _, opt := range opts {
		opt(s)
	}

	runs, err := otel.Meter("arc-seeder").Int64Counter("seeder.seed.runs",
		metric.WithDescription("Seed runs by outcome"),
	)
	if err != nil {
		s.logger.Warn("seed run counter unavailable", "error", err)
		runs = noop.Int64Counter{}
	}
	s.runs = runs

	return s
}

// SeedDatabase seeds reference tables when empty and, on a database without
// users, the sample business data inside one transaction. Failures are
// logged and never returned.
func (s *Service) SeedDatabase(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "seeder.seed_database")
	defer span.End()

	outcome := s.seed(ctx)

	span.SetAttributes(attribute.String("seed.outcome", string(outcome)))
	s.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
	s.publish(ctx, SubjectSeedPrefix+string(outcome), SeedEvent{Outcome: outcome, At: time.Now().UTC()})
}

func (s *Service) seed(ctx context.Context) Outcome {
	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, SeedLockKey, s.lockTTL)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "seed lock unavailable, seeding without it", "error", err)
		case !ok:
			s.logger.InfoContext(ctx, "seeding already running on another instance. Skipping seeding.")
			return OutcomeLocked
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.logger.WarnContext(ctx, "releasing seed lock", "error", err)
				}
			}()
		}
	}

	if err := s.seedPermissions(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Error while seeding default permissions", "error", err)
	}
	if err := s.seedRoles(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Error while seeding default roles", "error", err)
	}

	var populated bool
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		n, err := tx.Users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			populated = true
			return nil
		}
		return seedSampleData(ctx, tx)
	})

	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "Seeding failed", "error", err)
		return OutcomeFailed
	case populated:
		s.logger.InfoContext(ctx, "Database is already populated. Skipping seeding.")
		return OutcomeSkipped
	}

	s.logger.InfoContext(ctx, "database seeded")
	return OutcomeSeeded
}

func (s *Service) seedPermissions(ctx context.Context) error {
	n, err := s.store.Permissions.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	categories := models.PermissionCategories()
	rows := make([]*models.DefaultPermissions, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, &models.DefaultPermissions{Category: c, PermissionList: false})
	}
	return s.store.Permissions.Create(ctx, rows...)
}

func (s *Service) seedRoles(ctx context.Context) error {
	n, err := s.store.Roles.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	categories := models.RoleCategories()
	rows := make([]*models.DefaultRole, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, &models.DefaultRole{Name: c, Description: c.Description()})
	}
	return s.store.Roles.Create(ctx, rows...)
}

// Verify reports an error unless both reference tables and the users table
// hold at least one row.
func (s *Service) Verify(ctx context.Context) error {
	checks := []struct {
		table string
		count func(context.Context) (int64, error)
	}{
		{"default_permissions", s.store.Permissions.Count},
		{"default_roles", s.store.Roles.Count},
		{"users", s.store.Users.Count},
	}
	for _, c := range checks {
		n, err := c.count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s is empty", c.table)
		}
	}
	return nil
}

// GetUsers returns every user. No filtering, paging or ordering is applied.
func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.Find(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching users", "error", err)
		return nil, newError(KindBadRequest, MsgFetchUsersFailed, err)
	}
	return users, nil
}

// CreateAdminRequest is the payload for CreateSuperAdmin. Secret carries no
// binding rule: a missing secret is reported by CreateSuperAdmin, after the
// email conflict check.
type CreateAdminRequest struct {
	Secret    string `json:"secret"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

// CreateAdminResponse is returned by CreateSuperAdmin on success.
type CreateAdminResponse struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Data    *models.User `json:"data"`
}

// CreateSuperAdmin creates a super-admin user when req.Secret matches the
// configured admin secret. An existing email is reported before the secret
// is checked. Errors other than conflict and unauthorized are reported as
// KindInternal with a generic message.
func (s *Service) CreateSuperAdmin(ctx context.Context, req CreateAdminRequest) (*CreateAdminResponse, error) {
	admin, err := s.createSuperAdmin(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating superAdmin", "error", err)
		switch KindOf(err) {
		case KindConflict, KindUnauthorized:
			return nil, err
		}
		return nil, newError(KindInternal, MsgServerError, err)
	}

	s.publish(ctx, SubjectAdminCreated, AdminCreatedEvent{ID: admin.ID, Email: admin.Email, At: time.Now().UTC()})

	return &CreateAdminResponse{
		Status:  201,
		Message: MsgAdminCreated,
		Data:    admin,
	}, nil
}

func (s *Service) createSuperAdmin(ctx context.Context, req CreateAdminRequest) (*models.User, error) {
	_, err := s.store.Users.FindOneBy(ctx, "email", req.Email)
	switch {
	case err == nil:
		return nil, newError(KindConflict, MsgUserExists, nil)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	expected := s.secret()
	if expected == "" || subtle.ConstantTimeCompare([]byte(req.Secret), []byte(expected)) != 1 {
		return nil, newError(KindUnauthorized, MsgInvalidAdminSecret, nil)
	}

	admin := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsActive:  true,
	}
	admin.UserType = models.UserTypeSuperAdmin

	if err := s.store.Users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Service) publish(ctx context.Context, subject string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, payload); err != nil {
		s.logger.WarnContext(ctx, "publishing seeder event", "subject", subject, "error", err)
	}
}
