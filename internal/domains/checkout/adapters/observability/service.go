package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

const tracerName = "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout application port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// PlaceOrder runs the placement pipeline with instrumentation.
func (s *Service) PlaceOrder(ctx context.Context, cmd types.PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.PlaceOrder",
		attribute.Int64("order.customer_id", cmd.CustomerID),
		attribute.Int("order.item_count", len(cmd.Items)),
		attribute.String("order.payment_method", cmd.PaymentMethod),
	)
	defer span.End()

	s.logInfo(ctx, "placing order",
		slog.Int64("customer.id", cmd.CustomerID),
		slog.Int("items", len(cmd.Items)),
		slog.String("payment_method", cmd.PaymentMethod),
	)
	order, err := s.inner.PlaceOrder(ctx, cmd)
	if err != nil {
		s.metrics.recordPlacementFailed(ctx, cmd.PaymentMethod)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("customer.id", cmd.CustomerID))
	}
	span.SetAttributes(
		attribute.String("order.number", order.Number),
		attribute.String("order.status", string(order.Status)),
	)
	s.metrics.recordPlaced(ctx, order.PaymentMethod, order.Status)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", order.ID),
		slog.String("order.number", order.Number),
		slog.String("status", string(order.Status)),
		slog.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// GetOrder loads a single order scoped to its owner.
func (s *Service) GetOrder(ctx context.Context, customerID, orderID int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder",
		attribute.Int64("order.customer_id", customerID),
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	order, err := s.inner.GetOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	return order, nil
}

// ListOrders returns the customer's order history.
func (s *Service) ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders", attribute.Int64("order.customer_id", customerID))
	defer span.End()

	orders, err := s.inner.ListOrders(ctx, customerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("customer.id", customerID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(orders)))
	s.logInfo(ctx, "listed orders", slog.Int64("customer.id", customerID), slog.Int("count", len(orders)))
	return orders, nil
}

// AttachSlip records a proof-of-payment uploaded after placement.
func (s *Service) AttachSlip(ctx context.Context, customerID, orderID int64, slipPath string) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.AttachSlip",
		attribute.Int64("order.customer_id", customerID),
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	s.logInfo(ctx, "attaching payment slip", slog.Int64("order.id", orderID))
	order, err := s.inner.AttachSlip(ctx, customerID, orderID, slipPath)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to attach slip", slog.Int64("order.id", orderID))
	}
	s.metrics.recordSlipAttached(ctx)
	s.logInfo(ctx, "slip attached", slog.Int64("order.id", order.ID), slog.String("status", string(order.Status)))
	return order, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	ordersFailed  metric.Int64Counter
	slipsAttached metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("checkout.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersFailed, _ := m.Int64Counter("checkout.service.orders_failed", metric.WithDescription("Number of rejected placements"))
	slipsAttached, _ := m.Int64Counter("checkout.service.slips_attached", metric.WithDescription("Number of payment slips attached after placement"))
	return serviceMetrics{
		ordersPlaced:  ordersPlaced,
		ordersFailed:  ordersFailed,
		slipsAttached: slipsAttached,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, method domain.PaymentMethod, status domain.Status) {
	addCounter(ctx, m.ordersPlaced, 1,
		attribute.String("order.payment_method", string(method)),
		attribute.String("order.status", string(status)),
	)
}

func (m serviceMetrics) recordPlacementFailed(ctx context.Context, method string) {
	addCounter(ctx, m.ordersFailed, 1, attribute.String("order.payment_method", method))
}

func (m serviceMetrics) recordSlipAttached(ctx context.Context) {
	addCounter(ctx, m.slipsAttached, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
